package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/store"
)

// CommentsPerPage is the page size used when browsing comments
const CommentsPerPage = 10

// SubmitCommentInput is a stakeholder's feedback form
type SubmitCommentInput struct {
	LegislationID string `json:"legislationId" form:"legislationId"`
	Text          string `json:"text" form:"text"`
	Rating        *int   `json:"rating" form:"rating"`
}

// FeedbackService accepts and lists stakeholder comments
type FeedbackService struct {
	comments         CommentRepository
	annotator        SentimentAnnotator
	sentimentTimeout time.Duration
	ids              *idGenerator
	log              *logging.Logger
}

// NewFeedbackService creates a FeedbackService. annotator may be nil, in
// which case comments are stored without sentiment.
func NewFeedbackService(comments CommentRepository, annotator SentimentAnnotator, sentimentTimeout time.Duration, log *logging.Logger) *FeedbackService {
	return &FeedbackService{
		comments:         comments,
		annotator:        annotator,
		sentimentTimeout: sentimentTimeout,
		ids:              newIDGenerator(time.Now),
		log:              log,
	}
}

// Submit validates and stores a comment. Sentiment annotation is attempted
// first but never blocks the write: on any failure the comment is stored
// with a null label and score.
func (s *FeedbackService) Submit(ctx context.Context, in SubmitCommentInput) (*model.Comment, error) {
	missing := missingFields([][2]string{
		{"legislationId", in.LegislationID},
		{"text", in.Text},
	})
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required fields for comment", Fields: missing}
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, &ValidationError{Message: "rating must be between 1 and 5", Fields: []string{"rating"}}
	}

	legislationID := strings.TrimSpace(in.LegislationID)
	id, _ := s.ids.next(legislationID, "_")

	c := &model.Comment{
		CommentID:     id,
		LegislationID: legislationID,
		Text:          in.Text,
	}
	if in.Rating != nil {
		c.Rating = sql.NullInt64{Int64: int64(*in.Rating), Valid: true}
	}

	s.annotate(ctx, c)

	if err := s.comments.Create(ctx, c); err != nil {
		s.log.Error("failed to save comment", "commentId", c.CommentID, "error", err)
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("comment %s: %w", c.CommentID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.log.Info("comment submitted",
		"commentId", c.CommentID,
		"legislationId", c.LegislationID,
		"sentiment", c.SentimentLabel.String)

	return c, nil
}

// annotate attaches sentiment to c, best effort and with a bounded wait
func (s *FeedbackService) annotate(ctx context.Context, c *model.Comment) {
	if s.annotator == nil {
		return
	}

	callCtx := ctx
	if s.sentimentTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.sentimentTimeout)
		defer cancel()
	}

	results, err := s.annotator.Sentiment(callCtx, []string{c.Text})
	if err != nil {
		s.log.Warn("sentiment service failed, saving without sentiment",
			"commentId", c.CommentID, "error", err)
		return
	}
	if len(results) == 0 {
		s.log.Warn("sentiment service returned no results, saving without sentiment",
			"commentId", c.CommentID)
		return
	}

	r := results[0]
	if r.Label != "" {
		c.SentimentLabel = sql.NullString{String: r.Label, Valid: true}
	}
	if r.HasScore {
		c.SentimentScore = sql.NullFloat64{Float64: r.Score, Valid: true}
	}
}

// CommentQuery selects a page of comments for the browsing screen
type CommentQuery struct {
	LegislationID string
	// Sentiment is a label to match, or "" / "all" for every comment.
	// "neutral" also matches comments with no recorded sentiment.
	Sentiment string
	Page      int
}

// CommentPage is one page of a filtered, newest-first comment listing
type CommentPage struct {
	Comments   []model.Comment
	Page       int
	TotalPages int
	Total      int
}

// List returns comments newest first, filtered and paginated
func (s *FeedbackService) List(ctx context.Context, q CommentQuery) (*CommentPage, error) {
	comments, err := s.comments.List(ctx, model.CommentFilter{LegislationID: strings.TrimSpace(q.LegislationID)})
	if err != nil {
		s.log.Error("failed to list comments", "legislationId", q.LegislationID, "error", err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	SortNewestFirst(comments)
	filtered := FilterBySentiment(comments, q.Sentiment)
	return Paginate(filtered, q.Page, CommentsPerPage), nil
}

// FilterBySentiment keeps the comments whose label matches, case-insensitively
func FilterBySentiment(comments []model.Comment, label string) []model.Comment {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "all" {
		return comments
	}

	var out []model.Comment
	for _, c := range comments {
		got := c.Sentiment()
		if got == label || (label == model.SentimentNeutral && got == "") {
			out = append(out, c)
		}
	}
	return out
}

// Paginate slices comments into pages of perPage. Out-of-range page numbers
// are clamped to the first or last page; a non-positive perPage means
// CommentsPerPage.
func Paginate(comments []model.Comment, page, perPage int) *CommentPage {
	if perPage <= 0 {
		perPage = CommentsPerPage
	}
	total := len(comments)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	return &CommentPage{
		Comments:   comments[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}
