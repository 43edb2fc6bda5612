package cmd

import (
	"encoding/json"
	"os"

	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var (
	analyzeSave bool
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [legislationId]",
	Short: "Run the feedback analysis for a legislation",
	Long: `Analyze aggregates the comments of one legislation (or of all legislation
when no id is given): sentiment counts, rating histogram, top words, the
urgency flag, and the external summary and word cloud.

Examples:
  # Print the analysis
  ./econsult analyze LEG-2025-001

  # Save it as a snapshot
  ./econsult analyze LEG-2025-001 --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		legislationID := ""
		if len(args) == 1 {
			legislationID = args[0]
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := signalContext()
		defer cancel()

		analytics, cache, closeCache := analyticsDeps(ctx, e)
		defer closeCache()

		analyzer := service.NewAnalyzer(
			store.NewCommentStore(e.db),
			store.NewAnalysisStore(e.db),
			analytics, cache, e.cfg.Analytics.TopWords, e.log,
		)

		report, err := analyzer.Run(ctx, legislationID)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			e.log.Info("analysis",
				"legislationId", report.LegislationID,
				"totalComments", report.TotalComments,
				"positive", report.Sentiment.Positive,
				"negative", report.Sentiment.Negative,
				"neutral", report.Sentiment.Neutral,
				"ratings", report.Ratings,
				"urgent", report.Urgent,
				"topWords", report.TopWords,
				"summary", report.Summary)
		}

		if analyzeSave {
			snap, err := analyzer.SaveSnapshot(ctx, report)
			if err != nil {
				return err
			}
			e.log.Info("snapshot saved", "analysisId", snap.AnalysisID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the result as an analysis snapshot")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
}
