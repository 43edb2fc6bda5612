package service

import (
	"testing"
	"time"

	"github.com/jjenkins/econsult/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate string
		want    model.Status
	}{
		{"ends today", "2025-03-15", model.StatusActive},
		{"ends tomorrow", "2025-03-16", model.StatusActive},
		{"ended yesterday", "2025-03-14", model.StatusInactive},
		{"ended long ago", "2019-01-01", model.StatusInactive},
		{"timestamp later today", "2025-03-15T00:00:01Z", model.StatusActive},
		{"timestamp earlier today", "2025-03-15T00:00:00Z", model.StatusActive},
		{"timestamp yesterday", "2025-03-14T23:59:59Z", model.StatusInactive},
		{"unparseable", "next tuesday", model.StatusActive},
		{"empty", "", model.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(now, tt.endDate))
		})
	}
}

func TestComputeStatus_TimeOfDayIgnored(t *testing.T) {
	for _, hour := range []int{0, 6, 12, 18, 23} {
		now := time.Date(2025, 3, 15, hour, 30, 0, 0, time.UTC)
		assert.Equal(t, model.StatusActive, ComputeStatus(now, "2025-03-15"), "hour %d", hour)
		assert.Equal(t, model.StatusInactive, ComputeStatus(now, "2025-03-14"), "hour %d", hour)
	}
}

func TestComputeStatus_ConvertsToUTC(t *testing.T) {
	// 2025-03-16 01:00 in UTC+5 is still 2025-03-15 in UTC
	zone := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2025, 3, 16, 1, 0, 0, 0, zone)

	assert.Equal(t, model.StatusActive, ComputeStatus(now, "2025-03-15"))
}

func TestComputeStatus_ZeroNow(t *testing.T) {
	assert.Equal(t, model.StatusActive, ComputeStatus(time.Time{}, "2000-01-01"))
}

func TestComputeStatusForDates(t *testing.T) {
	assert.Equal(t, model.StatusActive, ComputeStatusForDates("2025-03-15", "2025-03-15"))
	assert.Equal(t, model.StatusInactive, ComputeStatusForDates("2025-03-16T08:00:00Z", "2025-03-15"))
	assert.Equal(t, model.StatusActive, ComputeStatusForDates("garbage", "2000-01-01"))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC)

	days, ok := daysUntil(now, "2025-03-22")
	assert.True(t, ok)
	assert.Equal(t, 7, days)

	days, ok = daysUntil(now, "2025-03-14")
	assert.True(t, ok)
	assert.Equal(t, -1, days)

	_, ok = daysUntil(now, "bad")
	assert.False(t, ok)
}
