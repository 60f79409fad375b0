package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the default configuration file and initializes the history database.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists, use --force to overwrite", shared.ErrInvalidArgument, configPath)
		}
		if err := shared.SaveConfig(configPath, shared.DefaultConfig()); err != nil {
			return err
		}
	} else if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	if config.Upload.History {
		r.logger.Info("initializing database", "path", config.Database.Path)

		db, err := r.openHistory(config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize history database: %w", err)
		}
		defer db.Close()

		version, err := shared.SchemaVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		r.logger.Info("database ready", "schema_version", version)
	}

	return r.writePlain("✓ Wrote %s\n", configPath)
}
