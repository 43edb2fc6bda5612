package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLegislation struct {
	mu    sync.Mutex
	items []model.Legislation
}

func (m *memLegislation) Create(_ context.Context, l *model.Legislation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.LegislationID == l.LegislationID {
			return store.ErrDuplicate
		}
	}
	m.items = append(m.items, *l)
	return nil
}

func (m *memLegislation) GetByID(_ context.Context, id string) (*model.Legislation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.LegislationID == id {
			x := x
			return &x, nil
		}
	}
	return nil, nil
}

func (m *memLegislation) List(_ context.Context) ([]model.Legislation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Legislation(nil), m.items...), nil
}

type memComments struct {
	mu       sync.Mutex
	comments []model.Comment
}

func (m *memComments) Create(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memComments) List(_ context.Context, f model.CommentFilter) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Comment
	for _, c := range m.comments {
		if f.LegislationID == "" || c.LegislationID == f.LegislationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComments) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comments), nil
}

type memAnalyses struct {
	mu    sync.Mutex
	snaps []model.AnalysisSnapshot
}

func (m *memAnalyses) Insert(_ context.Context, a *model.AnalysisSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = append(m.snaps, *a)
	return nil
}

func (m *memAnalyses) ListByLegislation(_ context.Context, id string) ([]model.AnalysisSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AnalysisSnapshot
	for _, s := range m.snaps {
		if s.LegislationID == id {
			out = append(out, s)
		}
	}
	return out, nil
}

type memOfficials struct {
	officials map[string]model.Official
}

func (m *memOfficials) GetByEmail(_ context.Context, email string) (*model.Official, error) {
	o, ok := m.officials[email]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memOfficials) Upsert(_ context.Context, o *model.Official) error {
	if m.officials == nil {
		m.officials = map[string]model.Official{}
	}
	m.officials[o.Email] = *o
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testEnv struct {
	app      *fiber.App
	token    string
	comments *memComments
	analyses *memAnalyses
}

func newTestEnv(t *testing.T, analyticsURL string) *testEnv {
	t.Helper()
	log := logging.NewNop()

	legRepo := &memLegislation{items: []model.Legislation{
		{LegislationID: "LEG-1", Title: "Clean Air Act", Description: "Emissions", StartDate: "2025-01-01", EndDate: "2099-12-31"},
		{LegislationID: "LEG-OLD", Title: "Expired Act", Description: "Old", StartDate: "2000-01-01", EndDate: "2000-12-31"},
	}}
	comments := &memComments{}
	analyses := &memAnalyses{}

	client := service.NewAnalyticsClient(analyticsURL, 2*time.Second, 1)
	legislation := service.NewLegislationService(legRepo, log)
	auth := service.NewAuthService(&memOfficials{}, "test-secret", time.Hour, log)
	require.NoError(t, auth.AddOfficial(context.Background(), "officer@gov.in", "GOV-1", "pw", "Asha"))

	app := fiber.New()
	Register(app, Deps{
		Legislation: legislation,
		Feedback:    service.NewFeedbackService(comments, client, time.Second, log),
		Analyzer:    service.NewAnalyzer(comments, analyses, client, nil, 0, log),
		Metrics:     service.NewMetricsService(legislation, comments),
		Auth:        auth,
		Guards:      service.NewGuardRegistry(),
		DB:          stubPinger{},
		Analytics:   client,
		Log:         log,
	})

	session, err := auth.Login(context.Background(), service.LoginInput{Email: "officer@gov.in", GovID: "GOV-1", Password: "pw"})
	require.NoError(t, err)

	return &testEnv{app: app, token: session.Token, comments: comments, analyses: analyses}
}

func analyticsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sentiment":
			io.WriteString(w, `{"results":[{"label":"LABEL_0","score":0.8}]}`)
		case "/summarize":
			io.WriteString(w, `{"summary":"People are unhappy."}`)
		case "/wordcloud":
			io.WriteString(w, `{"image_base64":"iVBOR","top_words":["air"]}`)
		case "/health":
			io.WriteString(w, `{"status":"ok"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (e *testEnv) do(t *testing.T, method, path, body, contentType string, authed bool) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodGet, "/healthz", "", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "ok", body["analytics"])
}

func TestHealthz_DatabaseDown(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", HealthHandler(stubPinger{err: errors.New("down")}, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHome_ShowsOnlyActiveLegislation(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodGet, "/", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := readBody(t, resp)
	assert.Contains(t, html, "Clean Air Act")
	assert.NotContains(t, html, "Expired Act")
}

func TestHome_DashboardForOfficial(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodGet, "/", "", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Dashboard")
}

func TestAPI_SubmitComment(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodPost, "/api/comments",
		`{"legislationId":"LEG-1","text":"Too strict","rating":2}`, fiber.MIMEApplicationJSON, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "negative", body["sentimentLabel"])
	assert.Equal(t, float64(2), body["rating"])
	assert.Len(t, env.comments.comments, 1)
}

func TestAPI_SubmitComment_Validation(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodPost, "/api/comments", `{"legislationId":"LEG-1","text":"x","rating":7}`, fiber.MIMEApplicationJSON, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/comments", `not json`, fiber.MIMEApplicationJSON, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, env.comments.comments)
}

func TestFeedbackForm_Submit(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	form := url.Values{"legislationId": {"LEG-1"}, "text": {"Good idea"}, "rating": {""}}
	resp := env.do(t, http.MethodPost, "/feedbackform", form.Encode(), fiber.MIMEApplicationForm, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Thank you")

	require.Len(t, env.comments.comments, 1)
	assert.False(t, env.comments.comments[0].Rating.Valid)
}

func TestGovRoutes_RequireLogin(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodGet, "/addlegislation", "", "", false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/govlogin", resp.Header.Get("Location"))

	resp = env.do(t, http.MethodGet, "/api/comments", "", "", false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/comments", "", "", true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_Form(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	form := url.Values{"email": {"Officer@gov.in"}, "govId": {"GOV-1"}, "password": {"pw"}}
	resp := env.do(t, http.MethodPost, "/govlogin", form.Encode(), fiber.MIMEApplicationForm, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), sessionCookie+"=")
	assert.Contains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "httponly")

	form.Set("password", "wrong-password")
	resp = env.do(t, http.MethodPost, "/govlogin", form.Encode(), fiber.MIMEApplicationForm, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	html := readBody(t, resp)
	assert.Contains(t, html, service.ErrPasswordMismatch.Error())
	assert.NotContains(t, html, "wrong-password")
	assert.NotContains(t, html, "GOV-1")
}

func TestAPI_Legislation(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)
	body := `{"legislationId":"LEG-2","title":"T","description":"D","startDate":"2025-01-01","endDate":"2099-01-01"}`

	resp := env.do(t, http.MethodPost, "/api/legislation", body, fiber.MIMEApplicationJSON, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/legislation", body, fiber.MIMEApplicationJSON, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"active"`)

	resp = env.do(t, http.MethodPost, "/api/legislation", body, fiber.MIMEApplicationJSON, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/legislation", `{"legislationId":"LEG-3"}`, fiber.MIMEApplicationJSON, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/legislation?status=inactive", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []model.Legislation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "LEG-OLD", items[0].LegislationID)

	resp = env.do(t, http.MethodGet, "/api/legislation/missing", "", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Analysis(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	for _, text := range []string{"Air quality rules too strict", "Strict rules hurt farmers"} {
		resp := env.do(t, http.MethodPost, "/api/comments", `{"legislationId":"LEG-1","text":"`+text+`"}`, fiber.MIMEApplicationJSON, false)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/analysis?legislationId=LEG-1", "", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		TotalComments int    `json:"totalComments"`
		Urgent        bool   `json:"urgent"`
		Summary       string `json:"summary"`
		TopWords      []model.WordCount
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.TotalComments)
	assert.True(t, report.Urgent)
	assert.Equal(t, "People are unhappy.", report.Summary)

	for i := 0; i < 2; i++ {
		resp = env.do(t, http.MethodPost, "/api/analysis", `{"legislationId":"LEG-1"}`, fiber.MIMEApplicationJSON, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	require.Len(t, env.analyses.snaps, 2)
	assert.NotEqual(t, env.analyses.snaps[0].AnalysisID, env.analyses.snaps[1].AnalysisID)

	resp = env.do(t, http.MethodPost, "/api/analysis", `{"legislationId":"LEG-EMPTY"}`, fiber.MIMEApplicationJSON, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/analysis/LEG-1/snapshots", "", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snaps []model.AnalysisSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snaps))
	assert.Len(t, snaps, 2)
}

func TestAnalysisPage(t *testing.T) {
	env := newTestEnv(t, analyticsServer(t).URL)

	resp := env.do(t, http.MethodGet, "/analysis", "", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Select a legislation")

	resp = env.do(t, http.MethodGet, "/analysis?legislationId=LEG-1", "", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "No comments yet")
}

func TestStatusFor(t *testing.T) {
	status, _ := statusFor(&service.ValidationError{Message: "bad"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = statusFor(service.ErrStaleSelection)
	assert.Equal(t, fiber.StatusConflict, status)

	status, msg := statusFor(errors.New("pq: connection refused"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, msg, "pq")
}
