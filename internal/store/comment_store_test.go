package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commentColumns = []string{"comment_id", "legislation_id", "text", "rating",
	"sentiment_label", "sentiment_score", "created_at"}

func TestCommentStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewCommentStore(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).
		WithArgs("LEG-101_1700000000000", "LEG-101", "Good step", int64(4), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	c := &model.Comment{
		CommentID:     "LEG-101_1700000000000",
		LegislationID: "LEG-101",
		Text:          "Good step",
		Rating:        sql.NullInt64{Int64: 4, Valid: true},
	}
	require.NoError(t, s.Create(context.Background(), c))
	assert.True(t, c.CreatedAt.Valid)
	assert.Equal(t, now, c.CreatedAt.Time)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStore_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewCommentStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).
		WillReturnError(&pq.Error{Code: "23505"})

	err = s.Create(context.Background(), &model.Comment{CommentID: "x", LegislationID: "LEG-101", Text: "t"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCommentStore_ListFiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewCommentStore(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM comments WHERE legislation_id = $1")).
		WithArgs("LEG-101").
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("LEG-101_1", "LEG-101", "Great law", 5, "positive", 0.93, now).
			AddRow("LEG-101_2", "LEG-101", "No rating yet", nil, nil, nil, nil))

	comments, err := s.List(context.Background(), model.CommentFilter{LegislationID: "LEG-101"})
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, int64(5), comments[0].Rating.Int64)
	assert.Equal(t, "positive", comments[0].Sentiment())
	assert.InDelta(t, 0.93, comments[0].SentimentScore.Float64, 1e-9)

	assert.False(t, comments[1].Rating.Valid)
	assert.False(t, comments[1].SentimentLabel.Valid)
	assert.False(t, comments[1].CreatedAt.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStore_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewCommentStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("sentiment_score, created_at FROM comments")).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(commentColumns))

	comments, err := s.List(context.Background(), model.CommentFilter{})
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
