package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/config"
	"github.com/bezalel6/computer-chess/pkg/env"
	"github.com/bezalel6/computer-chess/pkg/logging"
)

// app is the state shared by every subcommand once the root has
// loaded the configuration.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg    *config.Config
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "challenger",
		Short:         "Chess challenge generation and scoring engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "",
		"configuration file (.toml, .yaml); defaults to "+config.DefaultFile+" when present")
	flags.StringVar(&a.envFile, "env-file", "",
		"read CHALLENGER_* overrides from this .env file")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newServeCmd(a),
		newAnalyzeCmd(a),
		newReplayCmd(a),
		newLeaderboardCmd(a),
		newSummaryCmd(a),
		newCatalogueCmd(a),
		newConfigCmd(a),
	)
	return root
}

// load reads the configuration, applies environment overrides and
// flags, validates it and sets up logging.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	loader := env.NewLoader()
	if a.envFile != "" {
		if err := loader.Load(a.envFile); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(loader); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup(logging.Options{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	for _, w := range cfg.Warnings() {
		logger.Warn("configuration warning", logging.StringField("detail", w))
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
