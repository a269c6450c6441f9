package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/scaffold"
)

// Init returns the "init" subcommand: scaffold a new skill package.
func Init() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new skill package directory",
		ArgsUsage: "<dir>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				return cli.Exit("usage: ansuz init <dir>", 2)
			}
			if err := scaffold.Skill(dir); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(cmd.Root().Writer, "created skill package at %s\n", dir)
			return nil
		},
	}
}
