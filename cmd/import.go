package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load legislation from a JSON file",
	Long: `Import reads a JSON array of legislation records and creates each one.

Each record has legislationId, title, description, startDate and endDate.
Records whose id already exists are skipped; invalid records are reported
and do not stop the import. Status is derived from the end date.

Examples:
  # Import from a file
  ./econsult import --file legislation.json

  # Import from stdin
  cat legislation.json | ./econsult import --file -`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file to import, or - for stdin")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if importFile != "-" {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", importFile, err)
		}
		defer f.Close()
		r = f
	}

	records, err := service.ReadLegislation(r)
	if err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := signalContext()
	defer cancel()

	legislation := service.NewLegislationService(store.NewLegislationStore(e.db), e.log)
	importer := service.NewImporter(legislation, e.log)

	stats, err := importer.Import(ctx, records)
	if err != nil {
		if ctx.Err() != nil {
			e.log.Warn("import cancelled")
		}
		importer.PrintSummary(stats)
		return err
	}
	importer.PrintSummary(stats)

	if stats.Failed > 0 {
		return fmt.Errorf("%d records failed to import", stats.Failed)
	}
	return nil
}
