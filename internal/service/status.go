package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/econsult/internal/model"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// utcDate truncates t to its UTC calendar day
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeStatus derives the legislation status for the given moment.
// The comparison is at whole-day granularity in UTC: legislation stays
// active through the whole of its end date. An unparseable end date is
// logged and reported as active so the record keeps showing up.
func ComputeStatus(now time.Time, endDate string) model.Status {
	end, err := ParseDate(endDate)
	if err != nil {
		zap.S().Warnw("cannot compute legislation status, defaulting to active",
			"endDate", endDate, "error", err)
		return model.StatusActive
	}
	if now.IsZero() {
		zap.S().Warnw("cannot compute legislation status without a current date, defaulting to active")
		return model.StatusActive
	}

	if !utcDate(now).After(utcDate(end)) {
		return model.StatusActive
	}
	return model.StatusInactive
}

// ComputeStatusForDates is ComputeStatus with both dates given as strings
func ComputeStatusForDates(currentDate, endDate string) model.Status {
	current, err := ParseDate(currentDate)
	if err != nil {
		zap.S().Warnw("cannot compute legislation status, defaulting to active",
			"currentDate", currentDate, "error", err)
		return model.StatusActive
	}
	return ComputeStatus(current, endDate)
}

// daysUntil is the number of whole UTC days from now until endDate
func daysUntil(now time.Time, endDate string) (int, bool) {
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, false
	}
	return int(utcDate(end).Sub(utcDate(now)).Hours() / 24), true
}
