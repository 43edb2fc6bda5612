package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jjenkins/econsult/internal/model"
)

// LegislationStore handles database operations for legislation
type LegislationStore struct {
	db *sql.DB
}

// NewLegislationStore creates a new LegislationStore
func NewLegislationStore(db *sql.DB) *LegislationStore {
	return &LegislationStore{db: db}
}

// Create inserts a new legislation record. Records are immutable, so an
// existing legislation_id yields ErrDuplicate instead of an overwrite.
func (s *LegislationStore) Create(ctx context.Context, l *model.Legislation) error {
	query := `
		INSERT INTO legislation (legislation_id, title, description, start_date,
		                         end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (legislation_id) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		l.LegislationID,
		l.Title,
		l.Description,
		l.StartDate,
		l.EndDate,
		string(l.Status),
	).Scan(&l.CreatedAt, &l.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("legislation %s: %w", l.LegislationID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create legislation %s: %w", l.LegislationID, err)
	}

	return nil
}

// GetByID retrieves a legislation by its id. Returns nil, nil if not found.
func (s *LegislationStore) GetByID(ctx context.Context, id string) (*model.Legislation, error) {
	query := `
		SELECT legislation_id, title, description, start_date, end_date,
		       status, created_at, updated_at
		FROM legislation
		WHERE legislation_id = $1
	`

	var l model.Legislation
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&l.LegislationID,
		&l.Title,
		&l.Description,
		&l.StartDate,
		&l.EndDate,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legislation %s: %w", id, err)
	}

	return &l, nil
}

// List retrieves all legislation, newest created first. The status column
// holds the value computed at creation; callers re-derive it on read.
func (s *LegislationStore) List(ctx context.Context) ([]model.Legislation, error) {
	query := `
		SELECT legislation_id, title, description, start_date, end_date,
		       status, created_at, updated_at
		FROM legislation
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list legislation: %w", err)
	}
	defer rows.Close()

	var items []model.Legislation
	for rows.Next() {
		var l model.Legislation
		err := rows.Scan(
			&l.LegislationID,
			&l.Title,
			&l.Description,
			&l.StartDate,
			&l.EndDate,
			&l.Status,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legislation: %w", err)
		}
		items = append(items, l)
	}

	return items, rows.Err()
}

// Count returns the number of legislation records
func (s *LegislationStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM legislation`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count legislation: %w", err)
	}
	return count, nil
}
