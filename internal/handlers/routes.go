package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/service"
)

// Deps are the services the routes are built from
type Deps struct {
	Legislation   *service.LegislationService
	Feedback      *service.FeedbackService
	Analyzer      *service.Analyzer
	Metrics       *service.MetricsService
	Auth          *service.AuthService
	Guards        *service.GuardRegistry
	DB            Pinger
	Analytics     HealthChecker
	Log           *logging.Logger
	SecureCookies bool
}

// Register mounts every page and API route on app
func Register(app *fiber.App, d Deps) {
	requireOfficial := RequireOfficial(d.Auth)

	app.Get("/healthz", HealthHandler(d.DB, d.Analytics))

	// Stakeholder pages
	app.Get("/", OptionalOfficial(d.Auth), HomeHandler(d.Metrics, d.Legislation, d.Log))
	app.Get("/feedbackform", FeedbackFormHandler(d.Legislation, d.Log))
	app.Post("/feedbackform", FeedbackSubmitHandler(d.Feedback, d.Legislation, d.Log))
	app.Get("/govlogin", LoginPageHandler())
	app.Post("/govlogin", LoginSubmitHandler(d.Auth, d.SecureCookies))
	app.Post("/govlogout", LogoutHandler())

	// Official pages
	app.Get("/addlegislation", requireOfficial, AddLegislationPageHandler())
	app.Post("/addlegislation", requireOfficial, AddLegislationSubmitHandler(d.Legislation))
	app.Get("/listlegislation", requireOfficial, ListLegislationHandler(d.Legislation))
	app.Get("/comments", requireOfficial, CommentsHandler(d.Feedback, d.Legislation))
	app.Get("/analysis", requireOfficial, AnalysisHandler(d.Analyzer, d.Legislation, d.Guards))
	app.Post("/analysis/save", requireOfficial, SaveAnalysisHandler(d.Analyzer, d.Guards, d.Log))

	api := app.Group("/api")
	api.Post("/login", APILoginHandler(d.Auth, d.SecureCookies))
	api.Get("/legislation", APIListLegislationHandler(d.Legislation))
	api.Get("/legislation/:id", APIGetLegislationHandler(d.Legislation))
	api.Post("/comments", APISubmitCommentHandler(d.Feedback))

	api.Post("/legislation", requireOfficial, APICreateLegislationHandler(d.Legislation))
	api.Get("/comments", requireOfficial, APIListCommentsHandler(d.Feedback))
	api.Get("/dashboard", requireOfficial, APIDashboardHandler(d.Metrics))
	api.Get("/analysis", requireOfficial, APIAnalysisHandler(d.Analyzer, d.Guards))
	api.Post("/analysis", requireOfficial, APISaveAnalysisHandler(d.Analyzer, d.Guards))
	api.Get("/analysis/:id/snapshots", requireOfficial, APIListSnapshotsHandler(d.Analyzer))
}
