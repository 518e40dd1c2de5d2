package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"FakeNewsDetector/internal/domain"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify one article and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		text, _ := flags.GetString("text")
		subject, _ := flags.GetString("subject")
		source, _ := flags.GetString("source")
		pureML, _ := flags.GetBool("pure-ml")

		application, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		mode := domain.ModeEnhanced
		if pureML {
			mode = domain.ModePureML
		}
		result, err := application.Predict(cmd.Context(), domain.Article{
			Title:   title,
			Text:    text,
			Subject: subject,
			Source:  source,
		}, mode)
		if err != nil {
			return fail(logger, "prediction failed", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	predictCmd.Flags().String("title", "", "Article title")
	predictCmd.Flags().String("text", "", "Article body")
	predictCmd.Flags().String("subject", "", "Article subject")
	predictCmd.Flags().String("source", "", "Outlet name or URL used for credibility scoring")
	predictCmd.Flags().Bool("pure-ml", false, "Return the raw forest output without heuristic fusion")
}
