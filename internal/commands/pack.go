package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/archive"
)

// Pack returns the "pack" subcommand: bundle a skill directory into a
// deterministic zip.
func Pack() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Package a skill directory into a zip bundle",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output zip path (defaults to <skill-name>.zip)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			store, err := openStore(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			skillDir := strings.Trim(cmd.Args().First(), "/")
			if skillDir == "" {
				return cli.Exit("usage: ansuz pack <dir>", 2)
			}

			out := cmd.String("output")
			if out == "" {
				out = path.Base(skillDir) + ".zip"
			}

			f, err := os.Create(out)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer f.Close()

			manifest, err := archive.PackSkill(store, skillDir, f)
			if err != nil {
				os.Remove(out)
				var lintErr *archive.ErrLintFailed
				if errors.As(err, &lintErr) {
					for _, finding := range lintErr.Report.Findings {
						fmt.Fprintf(cmd.Root().Writer, "%s: %s: [%s] %s\n", finding.Severity, finding.Path, finding.Rule, finding.Message)
					}
				}
				return cli.Exit(err.Error(), 1)
			}

			fmt.Fprintf(cmd.Root().Writer, "packed %d file(s) into %s\n", len(manifest.Files), out)
			return nil
		},
	}
}
