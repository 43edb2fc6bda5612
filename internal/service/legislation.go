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
)

// CreateLegislationInput is the add-legislation form
type CreateLegislationInput struct {
	LegislationID string `json:"legislationId" form:"legislationId"`
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	StartDate     string `json:"startDate" form:"startDate"`
	EndDate       string `json:"endDate" form:"endDate"`
}

// CreateLegislationResult reports the stored id and its derived status
type CreateLegislationResult struct {
	ID     string       `json:"id"`
	Status model.Status `json:"status"`
}

// LegislationService creates and reads legislation. Status is derived from
// the current date on every read, so a record whose end date has passed
// stops being reported as active without being rewritten.
type LegislationService struct {
	store LegislationRepository
	now   func() time.Time
	log   *logging.Logger
}

// NewLegislationService creates a LegislationService
func NewLegislationService(store LegislationRepository, log *logging.Logger) *LegislationService {
	return &LegislationService{store: store, now: time.Now, log: log}
}

// Create validates and stores a new legislation record
func (s *LegislationService) Create(ctx context.Context, in CreateLegislationInput) (*CreateLegislationResult, error) {
	missing := missingFields([][2]string{
		{"legislationId", in.LegislationID},
		{"title", in.Title},
		{"description", in.Description},
		{"startDate", in.StartDate},
		{"endDate", in.EndDate},
	})
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required fields for legislation", Fields: missing}
	}

	l := &model.Legislation{
		LegislationID: strings.TrimSpace(in.LegislationID),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		StartDate:     strings.TrimSpace(in.StartDate),
		EndDate:       strings.TrimSpace(in.EndDate),
	}
	l.Status = ComputeStatus(s.now(), l.EndDate)

	if err := s.store.Create(ctx, l); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("legislation %s: %w", l.LegislationID, ErrAlreadyExists)
		}
		s.log.Error("failed to create legislation", "legislationId", l.LegislationID, "error", err)
		return nil, fmt.Errorf("failed to create legislation: %w", err)
	}

	s.log.Info("legislation created", "legislationId", l.LegislationID, "status", l.Status)

	return &CreateLegislationResult{ID: l.LegislationID, Status: l.Status}, nil
}

// Get returns one legislation with a freshly computed status
func (s *LegislationService) Get(ctx context.Context, id string) (*model.Legislation, error) {
	l, err := s.store.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		s.log.Error("failed to load legislation", "legislationId", id, "error", err)
		return nil, fmt.Errorf("failed to load legislation: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("legislation %s: %w", id, ErrNotFound)
	}

	l.Status = ComputeStatus(s.now(), l.EndDate)
	return l, nil
}

// List returns legislation newest first, optionally filtered by the status
// computed for today
func (s *LegislationService) List(ctx context.Context, filter model.LegislationFilter) ([]model.Legislation, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("failed to list legislation", "error", err)
		return nil, fmt.Errorf("failed to list legislation: %w", err)
	}

	now := s.now()
	out := make([]model.Legislation, 0, len(items))
	for _, l := range items {
		l.Status = ComputeStatus(now, l.EndDate)
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}

	return out, nil
}
