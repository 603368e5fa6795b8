// Command folio serves and manages a folio blog.
package main

import (
	"context"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v3"

	folio "github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := &cli.Command{
		Name:  "folio",
		Usage: "A personal blog engine built with Go, Echo, and templ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (default ./folio.yaml)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
			searchCommand(),
			paletteCommand(),
			initCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Command) *log.Logger {
	l := log.New("folio")
	l.SetHeader("${time_rfc3339} ${level}")
	if c.Bool("debug") {
		l.SetLevel(log.DEBUG)
	} else {
		l.SetLevel(log.INFO)
	}
	return l
}

func loadConfig(c *cli.Command) (folio.SiteConfig, error) {
	return folio.LoadConfig(c.String("config"))
}
