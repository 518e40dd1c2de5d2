package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FakeNewsDetector/internal/usecase"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train from the configured corpus and persist the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		m, err := application.Train(cmd.Context())
		if err != nil {
			return fail(logger, "training failed", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), usecase.BuildTrainingReport(m))
		return nil
	},
}
