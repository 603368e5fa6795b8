package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/search"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import the content directory into the database",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := openSite(cfg, c)
			if err != nil {
				return err
			}
			defer s.store.Close()

			n, err := s.importer.Import()
			if err != nil {
				return fmt.Errorf("import %s: %w", cfg.ContentDir, err)
			}
			fmt.Printf("Imported %d posts from %s into %s\n", n, cfg.ContentDir, cfg.DatabasePath)
			return nil
		},
	}
}

// site is the storage side of an App, for commands that never serve HTTP.
type site struct {
	cfg      folio.SiteConfig
	store    *folio.Store
	cache    *folio.PostCache
	importer *folio.Importer
}

func openSite(cfg folio.SiteConfig, c *cli.Command) (*site, error) {
	logger := newLogger(c)
	store, err := folio.NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	cache := folio.NewPostCache(store, cfg.PostCacheTTL, cfg.Search, logger)
	return &site{
		cfg:      cfg,
		store:    store,
		cache:    cache,
		importer: folio.NewImporter(cfg.ContentDir, store, cache, nil, logger),
	}, nil
}

// records imports the content directory and returns the searchable posts
// with their engine.
func (s *site) records() ([]search.PostRecord, search.Engine, error) {
	if _, err := s.importer.Import(); err != nil {
		return nil, nil, fmt.Errorf("import %s: %w", s.cfg.ContentDir, err)
	}
	posts, err := s.cache.ListPosts("")
	if err != nil {
		return nil, nil, err
	}
	engine, err := s.cache.Engine()
	if err != nil {
		return nil, nil, err
	}
	return lo.Map(posts, func(p folio.Post, _ int) search.PostRecord { return p.Record() }), engine, nil
}
