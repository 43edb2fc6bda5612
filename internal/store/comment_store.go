package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jjenkins/econsult/internal/model"
)

// CommentStore handles database operations for stakeholder comments
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment; created_at is assigned by the database
func (s *CommentStore) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (comment_id, legislation_id, text, rating,
		                      sentiment_label, sentiment_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.CommentID,
		c.LegislationID,
		c.Text,
		c.Rating,
		c.SentimentLabel,
		c.SentimentScore,
	).Scan(&c.CreatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("comment %s: %w", c.CommentID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create comment %s: %w", c.CommentID, err)
	}

	return nil
}

// List retrieves comments, optionally for one legislation. No ordering is
// guaranteed.
func (s *CommentStore) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	query := `
		SELECT comment_id, legislation_id, text, rating, sentiment_label,
		       sentiment_score, created_at
		FROM comments
	`
	var args []interface{}
	if filter.LegislationID != "" {
		query += ` WHERE legislation_id = $1`
		args = append(args, filter.LegislationID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		err := rows.Scan(
			&c.CommentID,
			&c.LegislationID,
			&c.Text,
			&c.Rating,
			&c.SentimentLabel,
			&c.SentimentScore,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// Count returns the total number of comments
func (s *CommentStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
