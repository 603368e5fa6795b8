package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/eringen/folio/search"
	"github.com/eringen/folio/tui"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search posts from the terminal",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := openSite(cfg, c)
			if err != nil {
				return err
			}
			defer s.store.Close()

			_, engine, err := s.records()
			if err != nil {
				return err
			}
			loc, err := search.NewLocation(cfg.URL + "/search/")
			if err != nil {
				return err
			}
			ctl := search.NewController(engine, loc)
			ctl.SetQuery(query)
			if !ctl.Searched() {
				return fmt.Errorf("query must be at least 2 characters")
			}

			results := ctl.Results()
			noun := "results"
			if len(results) == 1 {
				noun = "result"
			}
			fmt.Println(dimStyle.Render(fmt.Sprintf("Found %d %s for '%s'", len(results), noun, query)))
			for _, r := range results {
				fmt.Println()
				fmt.Printf("%s  %s\n", titleStyle.Render(r.Title), dimStyle.Render(r.Date))
				if r.Summary != "" {
					fmt.Println(r.Summary)
				}
				fmt.Println(urlStyle.Render(cfg.URL + r.Href()))
			}
			fmt.Println()
			fmt.Println(dimStyle.Render(loc.String()))
			return nil
		},
	}
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:  "palette",
		Usage: "Open an interactive search palette",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Initial search text",
			},
		},
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

			posts, engine, err := s.records()
			if err != nil {
				return err
			}
			start := cfg.URL + "/search/"
			if q := c.String("query"); q != "" {
				start += "?" + search.QueryParam + "=" + url.QueryEscape(q)
			}
			post, ok, err := tui.Run(posts, engine, start)
			if err != nil {
				return err
			}
			if ok {
				fmt.Println(cfg.URL + post.Href())
			}
			return nil
		},
	}
}
