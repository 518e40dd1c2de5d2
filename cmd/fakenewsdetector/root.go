package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"FakeNewsDetector/internal/app"
	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "fakenewsdetector",
	Short:         "Fake news detection service",
	Long:          "Trains a decision tree and a random forest over TF-IDF features and serves FAKE/REAL predictions over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides FAKENEWS_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

// bootstrap loads configuration, builds the logger and the application.
func bootstrap(cmd *cobra.Command) (*app.Application, *slog.Logger, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv("FAKENEWS_CONFIG", path); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		return nil, nil, err
	}
	return application, logger, nil
}

func fail(logger *slog.Logger, msg string, err error) error {
	logger.Error(msg, "error", err)
	return fmt.Errorf("%s: %w", msg, err)
}
