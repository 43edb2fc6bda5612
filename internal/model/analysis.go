package model

import "time"

// WordCount is one entry of a top-words ranking
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalysisSnapshot is a point-in-time aggregate of one legislation's
// comments. Snapshots are append-only.
type AnalysisSnapshot struct {
	AnalysisID           string      `json:"analysisId"`
	LegislationID        string      `json:"legislationId"`
	TotalComments        int         `json:"totalComments"`
	PositiveCommentCount int         `json:"positiveCommentCount"`
	NegativeCommentCount int         `json:"negativeCommentCount"`
	NeutralCommentCount  int         `json:"neutralCommentCount"`
	OverallSummary       string      `json:"overallSummary"`
	TopWords             []WordCount `json:"topWords"`
	Timestamp            time.Time   `json:"timestamp"`
}
