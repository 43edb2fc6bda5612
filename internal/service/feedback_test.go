package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Submit(t *testing.T) {
	repo := &fakeCommentRepo{}
	annotator := &fakeAnnotator{results: []SentimentResult{{Label: "positive", Score: 0.91, HasScore: true}}}
	svc := NewFeedbackService(repo, annotator, time.Second, logging.NewNop())

	c, err := svc.Submit(context.Background(), SubmitCommentInput{
		LegislationID: " LEG-1 ",
		Text:          "Great bill",
		Rating:        intPtr(5),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^LEG-1_\d+$`, c.CommentID)
	assert.Equal(t, "LEG-1", c.LegislationID)
	assert.Equal(t, "positive", c.SentimentLabel.String)
	assert.InDelta(t, 0.91, c.SentimentScore.Float64, 1e-9)
	assert.Equal(t, int64(5), c.Rating.Int64)
	require.Len(t, repo.comments, 1)
	assert.True(t, repo.comments[0].CreatedAt.Valid)
}

func TestFeedbackService_Submit_Validation(t *testing.T) {
	repo := &fakeCommentRepo{}
	annotator := &fakeAnnotator{}
	svc := NewFeedbackService(repo, annotator, time.Second, logging.NewNop())

	tests := []struct {
		name  string
		in    SubmitCommentInput
		field string
	}{
		{"missing legislation", SubmitCommentInput{Text: "hello"}, "legislationId"},
		{"blank text", SubmitCommentInput{LegislationID: "LEG-1", Text: "   "}, "text"},
		{"rating too low", SubmitCommentInput{LegislationID: "LEG-1", Text: "x", Rating: intPtr(0)}, "rating"},
		{"rating too high", SubmitCommentInput{LegislationID: "LEG-1", Text: "x", Rating: intPtr(6)}, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	assert.Empty(t, repo.comments)
	assert.Zero(t, annotator.calls)
}

func TestFeedbackService_Submit_NoRating(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewFeedbackService(repo, nil, time.Second, logging.NewNop())

	c, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "Fine"})
	require.NoError(t, err)
	assert.False(t, c.Rating.Valid)
	assert.False(t, c.SentimentLabel.Valid)
}

func TestFeedbackService_Submit_SentimentServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAnalyticsClient(srv.URL, time.Second, 2)
	client.backoff = time.Millisecond

	repo := &fakeCommentRepo{}
	svc := NewFeedbackService(repo, client, time.Second, logging.NewNop())

	c, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "Bad bill"})
	require.NoError(t, err)

	require.Len(t, repo.comments, 1)
	assert.False(t, c.SentimentLabel.Valid)
	assert.False(t, c.SentimentScore.Valid)
	assert.False(t, repo.comments[0].SentimentLabel.Valid)
}

func TestFeedbackService_Submit_SentimentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	repo := &fakeCommentRepo{}
	svc := NewFeedbackService(repo, NewAnalyticsClient(srv.URL, time.Minute, 1), 50*time.Millisecond, logging.NewNop())

	start := time.Now()
	c, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "Slow"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, c.SentimentLabel.Valid)
	require.Len(t, repo.comments, 1)
}

func TestFeedbackService_Submit_EmptySentimentResult(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewFeedbackService(repo, &fakeAnnotator{results: []SentimentResult{}}, time.Second, logging.NewNop())

	c, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "Meh"})
	require.NoError(t, err)
	assert.False(t, c.SentimentLabel.Valid)
}

func TestFeedbackService_Submit_StoreError(t *testing.T) {
	repo := &fakeCommentRepo{err: errBoom}
	svc := NewFeedbackService(repo, nil, time.Second, logging.NewNop())

	_, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestFeedbackService_Submit_UniqueIDs(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewFeedbackService(repo, nil, time.Second, logging.NewNop())
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.ids = newIDGenerator(func() time.Time { return fixed })

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		c, err := svc.Submit(context.Background(), SubmitCommentInput{LegislationID: "LEG-1", Text: "same"})
		require.NoError(t, err)
		assert.False(t, seen[c.CommentID], "duplicate id %s", c.CommentID)
		seen[c.CommentID] = true
	}
	assert.Len(t, repo.comments, 5)
}

func TestFeedbackService_List(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeCommentRepo{}
	for i := 0; i < 25; i++ {
		label := "positive"
		switch i % 3 {
		case 1:
			label = "negative"
		case 2:
			label = ""
		}
		repo.comments = append(repo.comments, comment(fmt.Sprintf("c%02d", i), "text", label, 0, base.Add(time.Duration(i)*time.Minute)))
	}
	repo.comments = append(repo.comments, model.Comment{CommentID: "other", LegislationID: "LEG-2", Text: "x"})

	svc := NewFeedbackService(repo, nil, time.Second, logging.NewNop())

	page, err := svc.List(context.Background(), CommentQuery{LegislationID: "LEG-1", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Comments, CommentsPerPage)
	assert.Equal(t, "c24", page.Comments[0].CommentID)

	page, err = svc.List(context.Background(), CommentQuery{LegislationID: "LEG-1", Page: 3})
	require.NoError(t, err)
	assert.Len(t, page.Comments, 5)

	page, err = svc.List(context.Background(), CommentQuery{LegislationID: "LEG-1", Sentiment: "Neutral"})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)

	page, err = svc.List(context.Background(), CommentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 26, page.Total)
}

func TestPaginate(t *testing.T) {
	comments := make([]model.Comment, 12)

	p := Paginate(comments, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Comments, 5)

	p = Paginate(comments, 99, 5)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, p.Comments, 2)

	p = Paginate(nil, 1, 5)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Comments)

	for _, perPage := range []int{0, -3} {
		p = Paginate(comments, 2, perPage)
		assert.Equal(t, 2, p.TotalPages)
		assert.Equal(t, 2, p.Page)
		assert.Len(t, p.Comments, 2)
	}
}

func TestFilterBySentiment(t *testing.T) {
	comments := []model.Comment{
		comment("1", "a", "Positive", 0, time.Time{}),
		comment("2", "b", "negative", 0, time.Time{}),
		comment("3", "c", "neutral", 0, time.Time{}),
		comment("4", "d", "", 0, time.Time{}),
	}

	assert.Len(t, FilterBySentiment(comments, ""), 4)
	assert.Len(t, FilterBySentiment(comments, "all"), 4)
	assert.Len(t, FilterBySentiment(comments, "positive"), 1)
	assert.Len(t, FilterBySentiment(comments, "neutral"), 2)
	assert.Empty(t, FilterBySentiment(comments, "angry"))
}
