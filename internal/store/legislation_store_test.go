package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legislationColumns = []string{"legislation_id", "title", "description", "start_date",
	"end_date", "status", "created_at", "updated_at"}

func TestLegislationStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewLegislationStore(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO legislation")).
		WithArgs("LEG-101", "Digital Privacy Act", "Protects data", "2025-01-01", "2025-12-31", "active").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	l := &model.Legislation{
		LegislationID: "LEG-101",
		Title:         "Digital Privacy Act",
		Description:   "Protects data",
		StartDate:     "2025-01-01",
		EndDate:       "2025-12-31",
		Status:        model.StatusActive,
	}
	require.NoError(t, s.Create(ctx, l))
	assert.Equal(t, now, l.CreatedAt)
	assert.Equal(t, now, l.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegislationStore_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewLegislationStore(db)

	// ON CONFLICT DO NOTHING returns no row for an existing id
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO legislation")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	err = s.Create(context.Background(), &model.Legislation{LegislationID: "LEG-101", Status: model.StatusActive})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegislationStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewLegislationStore(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM legislation WHERE legislation_id = $1")).
		WithArgs("LEG-101").
		WillReturnRows(sqlmock.NewRows(legislationColumns).
			AddRow("LEG-101", "Digital Privacy Act", "Protects data", "2025-01-01", "2025-12-31", "active", now, now))

	l, err := s.GetByID(ctx, "LEG-101")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "Digital Privacy Act", l.Title)
	assert.Equal(t, model.StatusActive, l.Status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM legislation WHERE legislation_id = $1")).
		WithArgs("LEG-404").
		WillReturnRows(sqlmock.NewRows(legislationColumns))

	l, err = s.GetByID(ctx, "LEG-404")
	assert.NoError(t, err)
	assert.Nil(t, l)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegislationStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewLegislationStore(db)
	newer := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM legislation ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(legislationColumns).
			AddRow("LEG-102", "Environmental Protection Bill", "d", "2025-01-01", "2025-09-20", "active", newer, newer).
			AddRow("LEG-101", "Digital Privacy Act", "d", "2025-01-01", "2025-09-30", "inactive", older, older))

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "LEG-102", items[0].LegislationID)
	assert.Equal(t, model.StatusInactive, items[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
