package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jjenkins/econsult/internal/model"
)

// expiringWindowDays is how far ahead the dashboard looks for closing consultations
const expiringWindowDays = 7

// MetricsService calculates the dashboard overview
type MetricsService struct {
	legislation *LegislationService
	comments    CommentRepository
	now         func() time.Time
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(legislation *LegislationService, comments CommentRepository) *MetricsService {
	return &MetricsService{legislation: legislation, comments: comments, now: time.Now}
}

// DashboardMetrics represents the official's landing page numbers
type DashboardMetrics struct {
	TotalLegislation int                 `json:"totalLegislation"`
	Active           int                 `json:"active"`
	Inactive         int                 `json:"inactive"`
	ExpiringSoon     []model.Legislation `json:"expiringSoon"`
	TotalComments    int                 `json:"totalComments"`
	HasData          bool                `json:"hasData"`
}

// Calculate computes the dashboard metrics from current data
func (m *MetricsService) Calculate(ctx context.Context) (*DashboardMetrics, error) {
	items, err := m.legislation.List(ctx, model.LegislationFilter{})
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TotalLegislation: len(items),
		HasData:          len(items) > 0,
		ExpiringSoon:     []model.Legislation{},
	}

	now := m.now()
	for _, l := range items {
		if l.Status == model.StatusActive {
			metrics.Active++
		} else {
			metrics.Inactive++
		}

		if days, ok := daysUntil(now, l.EndDate); ok && days >= 0 && days <= expiringWindowDays {
			metrics.ExpiringSoon = append(metrics.ExpiringSoon, l)
		}
	}

	total, err := m.comments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	metrics.TotalComments = total

	return metrics, nil
}
