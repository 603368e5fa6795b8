package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/scaffold"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a new site with a config file and a sample post",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Canonical site URL",
				Value: "http://localhost:4000",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Author name",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.Args().First()
			if dir == "" {
				return fmt.Errorf("usage: folio init <dir>")
			}
			data := scaffold.Data{
				SiteName:      scaffold.Title(filepath.Base(dir)),
				URL:           c.String("url"),
				Author:        c.String("author"),
				Date:          time.Now().Format(content.DateLayout),
				SessionSecret: uuid.NewString(),
			}

			fmt.Printf("Creating new folio site: %s\n\n", dir)
			created, err := scaffold.Generate(dir, data)
			for _, p := range created {
				fmt.Printf("  created %s\n", p)
			}
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println("Done! Next steps:")
			fmt.Println()
			fmt.Printf("  cd %s\n", dir)
			fmt.Println("  folio serve --watch")
			fmt.Println()
			fmt.Println("Add Markdown posts under content/blog/.")
			fmt.Println("Set FOLIO_SESSION_SECRET in production instead of keeping it in folio.yaml.")
			return nil
		},
	}
}
