package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficialStore_GetByEmailNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewOfficialStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM gov_officials WHERE email = $1")).
		WithArgs("jane@agency.gov").
		WillReturnRows(sqlmock.NewRows([]string{"email", "gov_id", "password_hash", "name"}).
			AddRow("jane@agency.gov", "GOV-7", "$2a$10$hash", "Jane"))

	o, err := s.GetByEmail(context.Background(), "  Jane@Agency.gov ")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "GOV-7", o.GovID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM gov_officials WHERE email = $1")).
		WithArgs("nobody@agency.gov").
		WillReturnRows(sqlmock.NewRows([]string{"email", "gov_id", "password_hash", "name"}))

	o, err = s.GetByEmail(context.Background(), "nobody@agency.gov")
	assert.NoError(t, err)
	assert.Nil(t, o)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfficialStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewOfficialStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO gov_officials")).
		WithArgs("jane@agency.gov", "GOV-7", "$2a$10$hash", "Jane").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = s.Upsert(context.Background(), &model.Official{
		Email: "Jane@Agency.gov", GovID: "GOV-7", PasswordHash: "$2a$10$hash", Name: "Jane",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
