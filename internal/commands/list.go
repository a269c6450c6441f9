package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

// List returns the "list" subcommand: show indexed documents and skills.
func List() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List indexed documents and skills",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Filter by kind (document or skill)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			svc, db, err := openService(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			items, total, err := svc.ListDocuments(ctx, 500, 0, cmd.String("kind"), "path")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tKIND\tTITLE")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Path, item.Kind, item.Title)
			}
			tw.Flush()
			fmt.Fprintf(cmd.Root().Writer, "%d document(s)\n", total)
			return nil
		},
	}
}
