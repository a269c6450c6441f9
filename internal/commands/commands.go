// Package commands implements the CLI subcommands that operate on a
// corpus directly, without the HTTP server.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/logging"
	"github.com/starford/ansuz/internal/storage"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// LoadConfig resolves the effective configuration for a CLI invocation:
// defaults, overlaid with the --config file when it exists.
func LoadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	logging.Setup(cfg.App.LogLevel)
	return cfg, nil
}

// openStore creates a storage provider rooted at the configured corpus.
func openStore(cfg *internal.Config) (storage.Provider, error) {
	store, err := storage.NewFS(cfg.Corpus.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", cfg.Corpus.Path, err)
	}
	return store, nil
}

// openService opens storage plus a freshly synced index. The caller must
// close the returned DB.
func openService(cfg *internal.Config) (*docservice.Service, *index.DB, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open index %s: %w", cfg.SQLite.Path, err)
	}
	if err := index.Sync(db, store, slog.Default()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sync index: %w", err)
	}
	return docservice.NewService(store, db), db, nil
}
