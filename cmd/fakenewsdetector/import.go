package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the CSV corpus into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		fakePath, _ := cmd.Flags().GetString("fake")
		truePath, _ := cmd.Flags().GetString("true")

		application, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.ImportCorpus(cmd.Context(), fakePath, truePath)
		if err != nil {
			return fail(logger, "import failed", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d articles\n", n)
		return nil
	},
}

func init() {
	importCmd.Flags().String("fake", "data/Fake.csv", "CSV file with FAKE articles")
	importCmd.Flags().String("true", "data/True.csv", "CSV file with REAL articles")
}
