package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v3"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Import content and serve the site",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-import on content changes and live-reload browsers",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides the config file)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("watch") {
				cfg.Watch = true
			}
			if addr := c.String("addr"); addr != "" {
				cfg.Addr = addr
			}
			return serve(ctx, folio.New(cfg, views.Default()), newLogger(c))
		},
	}
}

func serve(ctx context.Context, app *folio.App, logger *log.Logger) error {
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
