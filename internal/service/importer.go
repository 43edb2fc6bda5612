package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jjenkins/econsult/internal/logging"
)

// ImportStats tracks import statistics
type ImportStats struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
}

// Importer bulk-loads legislation records through LegislationService, so
// imported records get the same validation and status as form submissions
type Importer struct {
	legislation *LegislationService
	log         *logging.Logger
}

// NewImporter creates a new Importer
func NewImporter(legislation *LegislationService, log *logging.Logger) *Importer {
	return &Importer{legislation: legislation, log: log}
}

// ReadLegislation decodes a JSON array of legislation records
func ReadLegislation(r io.Reader) ([]CreateLegislationInput, error) {
	var records []CreateLegislationInput
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode legislation file: %w", err)
	}
	return records, nil
}

// Import creates every record. Records whose id already exists are
// skipped; invalid records are counted as failed and do not stop the run.
func (i *Importer) Import(ctx context.Context, records []CreateLegislationInput) (*ImportStats, error) {
	stats := &ImportStats{Total: len(records)}
	i.log.Info("importing legislation", "total", stats.Total)

	for idx, rec := range records {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("[%d/%d]", idx+1, stats.Total)

		res, err := i.legislation.Create(ctx, rec)
		switch {
		case err == nil:
			i.log.Info(progress+" imported", "legislationId", res.ID, "status", res.Status)
			stats.Imported++
		case errors.Is(err, ErrAlreadyExists):
			i.log.Info(progress+" skipping existing legislation", "legislationId", rec.LegislationID)
			stats.Skipped++
		case errors.Is(err, ErrValidation):
			i.log.Warn(progress+" invalid record", "legislationId", rec.LegislationID, "error", err)
			stats.Failed++
		default:
			i.log.Error(progress+" failed to import", "legislationId", rec.LegislationID, "error", err)
			stats.Failed++
		}
	}

	return stats, nil
}

// PrintSummary logs the import statistics
func (i *Importer) PrintSummary(stats *ImportStats) {
	attempted := stats.Total - stats.Skipped
	successRate := 100.0
	if attempted > 0 {
		successRate = float64(stats.Imported) / float64(attempted) * 100
	}

	i.log.Info("import summary",
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"successRate", fmt.Sprintf("%.1f%%", successRate))
}
