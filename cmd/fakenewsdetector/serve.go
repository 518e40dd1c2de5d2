package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	application, logger, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Serve(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return fail(logger, "application stopped", err)
	}
	return nil
}
