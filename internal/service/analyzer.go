package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/store"
	"golang.org/x/sync/errgroup"
)

// Report is the full result of one analysis run
type Report struct {
	LegislationID string          `json:"legislationId"`
	Comments      []model.Comment `json:"-"`
	Aggregation
	Summary     string    `json:"summary"`
	WordCloud   WordCloud `json:"wordCloud"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Analyzer runs the aggregation pipeline over a legislation's comments and
// persists snapshots on request. It keeps no state between runs.
type Analyzer struct {
	comments CommentRepository
	analyses AnalysisRepository
	enricher Enricher
	cache    EnrichmentCache
	parser   *Parser
	topN     int
	ids      *idGenerator
	now      func() time.Time
	log      *logging.Logger
}

// NewAnalyzer creates an Analyzer. enricher and cache may be nil.
func NewAnalyzer(comments CommentRepository, analyses AnalysisRepository, enricher Enricher, cache EnrichmentCache, topN int, log *logging.Logger) *Analyzer {
	if cache == nil {
		cache = noopCache{}
	}
	if topN <= 0 {
		topN = DefaultTopWords
	}
	return &Analyzer{
		comments: comments,
		analyses: analyses,
		enricher: enricher,
		cache:    cache,
		parser:   NewParser(),
		topN:     topN,
		ids:      newIDGenerator(time.Now),
		now:      time.Now,
		log:      log,
	}
}

// Run analyses the comments of one legislation, or of every legislation
// when legislationID is empty
func (a *Analyzer) Run(ctx context.Context, legislationID string) (*Report, error) {
	legislationID = strings.TrimSpace(legislationID)

	comments, err := a.comments.List(ctx, model.CommentFilter{LegislationID: legislationID})
	if err != nil {
		a.log.Error("failed to load comments for analysis", "legislationId", legislationID, "error", err)
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	SortNewestFirst(comments)

	report := &Report{
		LegislationID: legislationID,
		Comments:      comments,
		Aggregation:   Aggregate(a.parser, comments, a.topN),
		WordCloud:     WordCloud{TopWords: []string{}},
		GeneratedAt:   a.now(),
	}

	if len(comments) > 0 {
		texts := make([]string, len(comments))
		for i, c := range comments {
			texts[i] = c.Text
		}
		enrichment := a.enrich(ctx, texts)
		report.Summary = enrichment.Summary
		report.WordCloud = enrichment.WordCloud
	}

	return report, nil
}

// RunSelected is Run for an official's current selection. If the official
// selects something else before this run finishes, the result is dropped
// and ErrStaleSelection is returned.
func (a *Analyzer) RunSelected(ctx context.Context, guard *SelectionGuard, legislationID string) (*Report, error) {
	ticket := guard.Select(strings.TrimSpace(legislationID))

	report, err := a.Run(ctx, ticket.LegislationID)
	if !ticket.Current() {
		a.log.Debug("discarding stale analysis", "legislationId", ticket.LegislationID)
		return nil, ErrStaleSelection
	}
	if err == nil {
		ticket.keep(report)
	}
	return report, err
}

// enrich fetches summary and word cloud concurrently. Failures are logged
// and leave the corresponding field empty; only complete results are cached.
func (a *Analyzer) enrich(ctx context.Context, texts []string) Enrichment {
	result := Enrichment{WordCloud: WordCloud{TopWords: []string{}}}
	if a.enricher == nil {
		return result
	}

	key := EnrichmentKey(texts)
	if cached, ok := a.cache.Get(ctx, key); ok {
		return *cached
	}

	var summaryErr, wordCloudErr error
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := a.enricher.Summarize(gctx, texts)
		if err != nil {
			summaryErr = err
			a.log.Warn("summary unavailable", "error", err)
			return nil
		}
		result.Summary = summary
		return nil
	})

	g.Go(func() error {
		wc, err := a.enricher.WordCloud(gctx, texts)
		if err != nil {
			wordCloudErr = err
			a.log.Warn("word cloud unavailable", "error", err)
			return nil
		}
		if wc != nil {
			result.WordCloud = *wc
		}
		return nil
	})

	_ = g.Wait()

	if summaryErr == nil && wordCloudErr == nil {
		a.cache.Set(ctx, key, &result)
	}
	return result
}

// SaveSnapshot appends an analysis snapshot built from report. The top
// words are the locally computed ones.
func (a *Analyzer) SaveSnapshot(ctx context.Context, report *Report) (*model.AnalysisSnapshot, error) {
	if report == nil || strings.TrimSpace(report.LegislationID) == "" {
		return nil, &ValidationError{Message: "select a legislation before saving an analysis", Fields: []string{"legislationId"}}
	}
	if report.TotalComments == 0 {
		return nil, &ValidationError{Message: "there are no comments to analyse for this legislation"}
	}

	id, ts := a.ids.next(report.LegislationID, "_analysis_")
	snap := &model.AnalysisSnapshot{
		AnalysisID:           id,
		LegislationID:        report.LegislationID,
		TotalComments:        report.TotalComments,
		PositiveCommentCount: report.Sentiment.Positive,
		NegativeCommentCount: report.Sentiment.Negative,
		NeutralCommentCount:  report.Sentiment.Neutral,
		OverallSummary:       report.Summary,
		TopWords:             report.TopWords,
		Timestamp:            ts,
	}

	if err := a.analyses.Insert(ctx, snap); err != nil {
		a.log.Error("failed to save analysis", "analysisId", snap.AnalysisID, "error", err)
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("analysis %s: %w", snap.AnalysisID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	a.log.Info("analysis saved",
		"analysisId", snap.AnalysisID,
		"legislationId", snap.LegislationID,
		"totalComments", snap.TotalComments)

	return snap, nil
}

// Snapshot runs a fresh analysis for legislationID and saves it
func (a *Analyzer) Snapshot(ctx context.Context, legislationID string) (*model.AnalysisSnapshot, error) {
	if strings.TrimSpace(legislationID) == "" {
		return nil, &ValidationError{Message: "select a legislation before saving an analysis", Fields: []string{"legislationId"}}
	}

	report, err := a.Run(ctx, legislationID)
	if err != nil {
		return nil, err
	}
	return a.SaveSnapshot(ctx, report)
}

// SnapshotSelected saves the report the official was last shown for
// legislationID. Without one it falls back to a fresh Snapshot.
func (a *Analyzer) SnapshotSelected(ctx context.Context, guard *SelectionGuard, legislationID string) (*model.AnalysisSnapshot, error) {
	if report := guard.Shown(strings.TrimSpace(legislationID)); report != nil {
		return a.SaveSnapshot(ctx, report)
	}
	return a.Snapshot(ctx, legislationID)
}

// Snapshots lists the saved snapshots for a legislation, newest first
func (a *Analyzer) Snapshots(ctx context.Context, legislationID string) ([]model.AnalysisSnapshot, error) {
	snaps, err := a.analyses.ListByLegislation(ctx, strings.TrimSpace(legislationID))
	if err != nil {
		a.log.Error("failed to list analysis", "legislationId", legislationID, "error", err)
		return nil, fmt.Errorf("failed to list analysis: %w", err)
	}
	return snaps, nil
}
