package service

import (
	"sort"

	"github.com/jjenkins/econsult/internal/model"
)

// DefaultTopWords is the number of words returned by TopWords when no limit is given
const DefaultTopWords = 20

// urgencyMargin is how many percentage points the negative share must
// exceed the positive share by before a legislation needs attention
const urgencyMargin = 20

// SentimentCounts partitions a comment set by sentiment label
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	// Labeled counts comments that carried any sentiment label at all
	Labeled int `json:"labeled"`
}

// Total is the size of the comment set that was tallied
func (s SentimentCounts) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// RatingHistogram counts comments per star rating; index 0 is one star
type RatingHistogram [5]int

// Total is the number of comments that had a valid rating
func (h RatingHistogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Count returns the bucket for a 1-5 rating, or 0 for anything else
func (h RatingHistogram) Count(rating int) int {
	if rating < 1 || rating > 5 {
		return 0
	}
	return h[rating-1]
}

// Aggregation is the locally computed part of an analysis run
type Aggregation struct {
	TotalComments  int               `json:"totalComments"`
	Sentiment      SentimentCounts   `json:"sentiment"`
	Ratings        RatingHistogram   `json:"ratings"`
	TopWords       []model.WordCount `json:"topWords"`
	UrgencyDefined bool              `json:"urgencyDefined"`
	Urgent         bool              `json:"urgent"`
}

// TallySentiment counts comments by label, case-insensitively. Comments
// with no label, or a label that is not positive or negative, are neutral.
func TallySentiment(comments []model.Comment) SentimentCounts {
	var counts SentimentCounts
	for _, c := range comments {
		if c.SentimentLabel.Valid {
			counts.Labeled++
		}
		switch c.Sentiment() {
		case model.SentimentPositive:
			counts.Positive++
		case model.SentimentNegative:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}
	return counts
}

// TallyRatings builds the 1-5 star histogram. Missing or out-of-range
// ratings are left out.
func TallyRatings(comments []model.Comment) RatingHistogram {
	var h RatingHistogram
	for _, c := range comments {
		if !c.Rating.Valid {
			continue
		}
		r := c.Rating.Int64
		if r < 1 || r > 5 {
			continue
		}
		h[r-1]++
	}
	return h
}

// TopWords counts words across texts and returns the limit most frequent,
// highest first. Ties keep the order in which the words were first seen.
func TopWords(parser *Parser, texts []string, limit int) []model.WordCount {
	if limit <= 0 {
		limit = DefaultTopWords
	}

	index := make(map[string]int)
	var counts []model.WordCount
	for _, text := range texts {
		for _, word := range parser.Tokens(text) {
			if i, ok := index[word]; ok {
				counts[i].Count++
				continue
			}
			index[word] = len(counts)
			counts = append(counts, model.WordCount{Word: word, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	if counts == nil {
		counts = []model.WordCount{}
	}
	return counts
}

// IsUrgent reports whether negative feedback outweighs positive feedback by
// at least the urgency margin. Neutral comments are not part of the base.
func IsUrgent(positive, negative int) bool {
	total := positive + negative
	if total == 0 {
		return false
	}
	// negative% - positive% >= margin, kept in integers
	return (negative-positive)*100 >= urgencyMargin*total
}

// Aggregate computes every local statistic for a comment set
func Aggregate(parser *Parser, comments []model.Comment, topN int) Aggregation {
	sentiment := TallySentiment(comments)

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
	}

	agg := Aggregation{
		TotalComments: len(comments),
		Sentiment:     sentiment,
		Ratings:       TallyRatings(comments),
		TopWords:      TopWords(parser, texts, topN),
	}

	// Urgency only means something once at least one comment was labelled
	if sentiment.Labeled > 0 {
		agg.UrgencyDefined = true
		agg.Urgent = IsUrgent(sentiment.Positive, sentiment.Negative)
	}

	return agg
}

// SortNewestFirst orders comments by CreatedAt descending. Comments without
// a server timestamp are treated as the epoch and end up last.
func SortNewestFirst(comments []model.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return createdMillis(comments[i]) > createdMillis(comments[j])
	})
}

func createdMillis(c model.Comment) int64 {
	if !c.CreatedAt.Valid {
		return 0
	}
	return c.CreatedAt.Time.UnixMilli()
}
