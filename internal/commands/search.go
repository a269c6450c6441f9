package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// Search returns the "search" subcommand: full-text search over the index.
func Search() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over the corpus",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := strings.Join(cmd.Args().Slice(), " ")
			if query == "" {
				return cli.Exit("usage: ansuz search <query>", 2)
			}

			cfg, err := LoadConfig(cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			svc, db, err := openService(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			results, err := svc.Search(ctx, query, int(cmd.Int("limit")))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.Root().Writer, "no results")
				return nil
			}
			for _, res := range results {
				fmt.Fprintf(cmd.Root().Writer, "%s\t%s\n", res.Path, res.Title)
				if res.Snippet != "" {
					fmt.Fprintf(cmd.Root().Writer, "    %s\n", res.Snippet)
				}
			}
			return nil
		},
	}
}
