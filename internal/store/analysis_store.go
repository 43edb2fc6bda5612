package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jjenkins/econsult/internal/model"
)

// AnalysisStore persists append-only analysis snapshots
type AnalysisStore struct {
	db *sql.DB
}

// NewAnalysisStore creates a new AnalysisStore
func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

// Insert appends a snapshot. There is no update path: a second save for the
// same legislation is a new row with its own analysis_id.
func (s *AnalysisStore) Insert(ctx context.Context, a *model.AnalysisSnapshot) error {
	topWords := a.TopWords
	if topWords == nil {
		topWords = []model.WordCount{}
	}
	words, err := json.Marshal(topWords)
	if err != nil {
		return fmt.Errorf("failed to encode top words: %w", err)
	}

	query := `
		INSERT INTO analysis (analysis_id, legislation_id, total_comments,
		                      positive_comment_count, negative_comment_count,
		                      neutral_comment_count, overall_summary, top_words, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		a.AnalysisID,
		a.LegislationID,
		a.TotalComments,
		a.PositiveCommentCount,
		a.NegativeCommentCount,
		a.NeutralCommentCount,
		a.OverallSummary,
		string(words),
		a.Timestamp,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("analysis %s: %w", a.AnalysisID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", a.AnalysisID, err)
	}

	return nil
}

// ListByLegislation returns the snapshots for one legislation, newest first
func (s *AnalysisStore) ListByLegislation(ctx context.Context, legislationID string) ([]model.AnalysisSnapshot, error) {
	query := `
		SELECT analysis_id, legislation_id, total_comments, positive_comment_count,
		       negative_comment_count, neutral_comment_count, overall_summary,
		       top_words, timestamp
		FROM analysis
		WHERE legislation_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, legislationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis for %s: %w", legislationID, err)
	}
	defer rows.Close()

	var snapshots []model.AnalysisSnapshot
	for rows.Next() {
		var a model.AnalysisSnapshot
		var words []byte
		err := rows.Scan(
			&a.AnalysisID,
			&a.LegislationID,
			&a.TotalComments,
			&a.PositiveCommentCount,
			&a.NegativeCommentCount,
			&a.NeutralCommentCount,
			&a.OverallSummary,
			&words,
			&a.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := json.Unmarshal(words, &a.TopWords); err != nil {
			return nil, fmt.Errorf("failed to decode top words for %s: %w", a.AnalysisID, err)
		}
		snapshots = append(snapshots, a)
	}

	return snapshots, rows.Err()
}
