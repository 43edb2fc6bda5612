package model

import (
	"database/sql"
	"strings"
)

// Sentiment labels produced by the analytics service
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Comment is a stakeholder's feedback on one legislation.
// LegislationID is a soft reference and is never checked for existence.
type Comment struct {
	CommentID      string
	LegislationID  string
	Text           string
	Rating         sql.NullInt64
	SentimentLabel sql.NullString
	SentimentScore sql.NullFloat64
	CreatedAt      sql.NullTime
}

// Sentiment returns the lower-cased label, or "" when none was recorded
func (c Comment) Sentiment() string {
	if !c.SentimentLabel.Valid {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.SentimentLabel.String))
}

// CommentFilter narrows a comment listing. An empty LegislationID matches all.
type CommentFilter struct {
	LegislationID string
}
