package service

import (
	"context"

	"github.com/jjenkins/econsult/internal/model"
)

// LegislationRepository is the persistence the legislation services need.
// *store.LegislationStore satisfies it.
type LegislationRepository interface {
	Create(ctx context.Context, l *model.Legislation) error
	GetByID(ctx context.Context, id string) (*model.Legislation, error)
	List(ctx context.Context) ([]model.Legislation, error)
}

// CommentRepository is satisfied by *store.CommentStore
type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error)
	Count(ctx context.Context) (int, error)
}

// AnalysisRepository is satisfied by *store.AnalysisStore
type AnalysisRepository interface {
	Insert(ctx context.Context, a *model.AnalysisSnapshot) error
	ListByLegislation(ctx context.Context, legislationID string) ([]model.AnalysisSnapshot, error)
}

// OfficialRepository is satisfied by *store.OfficialStore
type OfficialRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Official, error)
	Upsert(ctx context.Context, o *model.Official) error
}

// SentimentAnnotator labels comment text. *AnalyticsClient satisfies it.
type SentimentAnnotator interface {
	Sentiment(ctx context.Context, texts []string) ([]SentimentResult, error)
}

// Enricher produces the externally computed parts of an analysis.
// *AnalyticsClient satisfies it.
type Enricher interface {
	Summarize(ctx context.Context, texts []string) (string, error)
	WordCloud(ctx context.Context, texts []string) (*WordCloud, error)
}
