package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/store"
)

type fakeLegislationRepo struct {
	mu    sync.Mutex
	items []model.Legislation
	err   error
}

func (f *fakeLegislationRepo) Create(_ context.Context, l *model.Legislation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.items {
		if existing.LegislationID == l.LegislationID {
			return store.ErrDuplicate
		}
	}
	f.items = append(f.items, *l)
	return nil
}

func (f *fakeLegislationRepo) GetByID(_ context.Context, id string) (*model.Legislation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, l := range f.items {
		if l.LegislationID == id {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeLegislationRepo) List(_ context.Context) ([]model.Legislation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Legislation(nil), f.items...), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []model.Comment
	err      error
	// onList runs at the start of every List call
	onList func()
}

func (f *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.comments {
		if existing.CommentID == c.CommentID {
			return store.ErrDuplicate
		}
	}
	c.CreatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeCommentRepo) List(_ context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	if f.onList != nil {
		f.onList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Comment
	for _, c := range f.comments {
		if filter.LegislationID == "" || c.LegislationID == filter.LegislationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.comments), nil
}

type fakeAnalysisRepo struct {
	mu    sync.Mutex
	snaps []model.AnalysisSnapshot
}

func (f *fakeAnalysisRepo) Insert(_ context.Context, a *model.AnalysisSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.snaps {
		if s.AnalysisID == a.AnalysisID {
			return store.ErrDuplicate
		}
	}
	f.snaps = append(f.snaps, *a)
	return nil
}

func (f *fakeAnalysisRepo) ListByLegislation(_ context.Context, id string) ([]model.AnalysisSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AnalysisSnapshot
	for i := len(f.snaps) - 1; i >= 0; i-- {
		if f.snaps[i].LegislationID == id {
			out = append(out, f.snaps[i])
		}
	}
	return out, nil
}

type fakeOfficialRepo struct {
	officials map[string]model.Official
}

func (f *fakeOfficialRepo) GetByEmail(_ context.Context, email string) (*model.Official, error) {
	o, ok := f.officials[email]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOfficialRepo) Upsert(_ context.Context, o *model.Official) error {
	if f.officials == nil {
		f.officials = make(map[string]model.Official)
	}
	f.officials[o.Email] = *o
	return nil
}

type fakeAnnotator struct {
	results []SentimentResult
	err     error
	block   bool
	calls   int
}

func (f *fakeAnnotator) Sentiment(ctx context.Context, texts []string) ([]SentimentResult, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.results, f.err
}

type fakeEnricher struct {
	mu           sync.Mutex
	summary      string
	summaryErr   error
	wordCloud    *WordCloud
	wordCloudErr error
	calls        int
}

func (f *fakeEnricher) Summarize(_ context.Context, _ []string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.summary, f.summaryErr
}

func (f *fakeEnricher) WordCloud(_ context.Context, _ []string) (*WordCloud, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.wordCloud, f.wordCloudErr
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]Enrichment
}

func (m *memoryCache) Get(_ context.Context, key string) (*Enrichment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (m *memoryCache) Set(_ context.Context, key string, e *Enrichment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]Enrichment)
	}
	m.entries[key] = *e
}

var errBoom = errors.New("boom")

func comment(id, text, label string, rating int, created time.Time) model.Comment {
	c := model.Comment{CommentID: id, LegislationID: "LEG-1", Text: text}
	if label != "" {
		c.SentimentLabel = sql.NullString{String: label, Valid: true}
	}
	if rating != 0 {
		c.Rating = sql.NullInt64{Int64: int64(rating), Valid: true}
	}
	if !created.IsZero() {
		c.CreatedAt = sql.NullTime{Time: created, Valid: true}
	}
	return c
}

func intPtr(n int) *int { return &n }
