package templates

import (
	"net/url"
	"strconv"

	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
)

// Flash is a one-shot message shown above a form
type Flash struct {
	Success string
	Error   string
}

// HomeView is the landing page. Metrics is set only for a signed-in official.
type HomeView struct {
	Official string
	Metrics  *service.DashboardMetrics
	Active   []model.Legislation
}

// LoginView is the official sign-in form. The password is never echoed back.
type LoginView struct {
	Email string
	Flash Flash
}

// FeedbackView is the stakeholder comment form
type FeedbackView struct {
	Legislation []model.Legislation
	Selected    string
	Text        string
	Rating      int
	Flash       Flash
}

// AddLegislationView is the create-legislation form
type AddLegislationView struct {
	Official string
	Values   service.CreateLegislationInput
	Flash    Flash
}

// LegislationListView lists legislation with an optional status filter
type LegislationListView struct {
	Official string
	Items    []model.Legislation
	Status   string
}

// CommentsView is one page of the comment browser
type CommentsView struct {
	Official      string
	Legislation   []model.Legislation
	LegislationID string
	Sentiment     string
	Page          *service.CommentPage
}

// AnalysisView is the analytics page for one selected legislation
type AnalysisView struct {
	Official      string
	Legislation   []model.Legislation
	LegislationID string
	Report        *service.Report
	Snapshots     []model.AnalysisSnapshot
	Flash         Flash
}

type navLink struct {
	href  string
	label string
}

var publicNav = []navLink{
	{"/", "Home"},
	{"/feedbackform", "Give feedback"},
	{"/govlogin", "Official login"},
}

var officialNav = []navLink{
	{"/", "Dashboard"},
	{"/addlegislation", "Add legislation"},
	{"/listlegislation", "Legislation"},
	{"/comments", "Comments"},
	{"/analysis", "Analysis"},
}

func navFor(official string) []navLink {
	if official != "" {
		return officialNav
	}
	return publicNav
}

const styleTag = `<style>body{font-family:system-ui,sans-serif;margin:0;color:#1f2937;background:#f9fafb}
header{background:#1e3a8a;color:#fff;padding:.75rem 1.5rem;display:flex;gap:1.5rem;align-items:center}
header a{color:#fff;text-decoration:none}header .who{margin-left:auto}
main{max-width:960px;margin:1.5rem auto;padding:0 1rem}
table{width:100%;border-collapse:collapse;background:#fff}th,td{padding:.5rem;border-bottom:1px solid #e5e7eb;text-align:left}
.cards{display:flex;gap:1rem;flex-wrap:wrap}.card{background:#fff;padding:1rem;border-radius:6px;min-width:140px;box-shadow:0 1px 2px #0001}
.card .value{font-size:1.75rem;font-weight:600}
.flash{padding:.75rem;border-radius:4px;margin-bottom:1rem}.flash-success{background:#dcfce7}.flash-error{background:#fee2e2}
.badge{padding:.1rem .5rem;border-radius:999px;font-size:.8rem;background:#e5e7eb}
.badge-active,.badge-positive{background:#dcfce7}.badge-inactive,.badge-negative{background:#fee2e2}
.urgent{background:#fef3c7;padding:.75rem;border-left:4px solid #d97706}
form.stack label{display:block;margin-top:.75rem}form.stack input,form.stack textarea,form.stack select{width:100%;padding:.4rem}
progress{width:300px}</style>`

// withQuery builds path?key=value with value query-escaped
func withQuery(path, key, value string) string {
	return path + "?" + url.Values{key: []string{value}}.Encode()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

var ratingStars = []int{1, 2, 3, 4, 5}

// peakRating is the largest histogram bucket, at least 1 so bars have a scale
func peakRating(h service.RatingHistogram) int {
	peak := 1
	for _, n := range h {
		if n > peak {
			peak = n
		}
	}
	return peak
}

var sentimentOptions = []string{"all", model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral}

// sentimentLabel is the badge text for a comment
func sentimentLabel(c model.Comment) string {
	if label := c.Sentiment(); label != "" {
		return label
	}
	return "unscored"
}

func ratingText(c model.Comment) string {
	if !c.Rating.Valid {
		return "–"
	}
	return strconv.FormatInt(c.Rating.Int64, 10) + "/5"
}

func submittedAt(c model.Comment) string {
	if !c.CreatedAt.Valid {
		return ""
	}
	return c.CreatedAt.Time.UTC().Format("2006-01-02 15:04")
}

// pageLink keeps the comment filters while moving to page p
func pageLink(v CommentsView, p int) string {
	q := url.Values{}
	if v.LegislationID != "" {
		q.Set("legislationId", v.LegislationID)
	}
	if v.Sentiment != "" {
		q.Set("sentiment", v.Sentiment)
	}
	q.Set("page", strconv.Itoa(p))
	return "/comments?" + q.Encode()
}
