package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/lint"
)

// Validate returns the "validate" subcommand: lint a document, a skill
// directory, or the whole corpus. Exits 1 when any error-severity finding
// is present.
func Validate() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a document, a skill directory, or the whole corpus",
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			store, err := openStore(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			target := strings.Trim(cmd.Args().First(), "/")
			var report *lint.Report
			switch {
			case target == "":
				report, err = lint.CheckCorpus(store)
			case store.Exists(target):
				data, readErr := store.Read(target)
				if readErr != nil {
					return cli.Exit(readErr.Error(), 1)
				}
				report = &lint.Report{Findings: lint.CheckDocument(target, data), Checked: 1}
			default:
				report, err = lint.CheckSkillDir(store, target)
			}
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			for _, f := range report.Findings {
				fmt.Fprintf(cmd.Root().Writer, "%s: %s: [%s] %s\n", f.Severity, f.Path, f.Rule, f.Message)
			}
			fmt.Fprintf(cmd.Root().Writer, "checked %d file(s), %d finding(s)\n", report.Checked, len(report.Findings))
			if report.HasErrors() {
				return cli.Exit("validation failed", 1)
			}
			return nil
		},
	}
}
