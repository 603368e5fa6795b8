package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the folio version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Printf("folio %s\n", version)
			return nil
		},
	}
}
