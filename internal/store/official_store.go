package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jjenkins/econsult/internal/model"
)

// OfficialStore handles the pre-approved officials used for login
type OfficialStore struct {
	db *sql.DB
}

// NewOfficialStore creates a new OfficialStore
func NewOfficialStore(db *sql.DB) *OfficialStore {
	return &OfficialStore{db: db}
}

// GetByEmail looks up an official by lower-cased email. Returns nil, nil if
// the email is not pre-approved.
func (s *OfficialStore) GetByEmail(ctx context.Context, email string) (*model.Official, error) {
	query := `
		SELECT email, gov_id, password_hash, name
		FROM gov_officials
		WHERE email = $1
	`

	var o model.Official
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&o.Email,
		&o.GovID,
		&o.PasswordHash,
		&o.Name,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get official: %w", err)
	}

	return &o, nil
}

// Upsert inserts or replaces an official
func (s *OfficialStore) Upsert(ctx context.Context, o *model.Official) error {
	query := `
		INSERT INTO gov_officials (email, gov_id, password_hash, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			gov_id = EXCLUDED.gov_id,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name
	`

	_, err := s.db.ExecContext(ctx, query,
		strings.ToLower(strings.TrimSpace(o.Email)),
		o.GovID,
		o.PasswordHash,
		o.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert official: %w", err)
	}

	return nil
}
