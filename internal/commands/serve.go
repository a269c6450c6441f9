package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/mcpserver"
)

// Serve returns the "serve" subcommand: run the HTTP API, SSE stream, and
// filesystem watcher.
func Serve() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with live change events and a filesystem watcher",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

// MCP returns the "mcp" subcommand: serve corpus tools over MCP stdio.
// Logs go to stderr so they cannot corrupt the stdio transport.
func MCP() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve corpus tools to assistants over MCP stdio",
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

			return mcpserver.New(svc).ServeStdio()
		},
	}
}
