package cmd

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/jjenkins/econsult/internal/handlers"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var (
	port          string
	serveMigrate  bool
	secureCookies bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the eConsultation web server",
	Long:  `Start the web server for stakeholder feedback and official analytics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := signalContext()
		defer cancel()

		if serveMigrate {
			if err := store.Migrate(ctx, e.db); err != nil {
				e.log.Error("migration failed", "error", err)
				return err
			}
		}

		// The flag wins over config only when it was set explicitly
		if cmd.Flags().Changed("port") {
			e.cfg.Server.Port = port
		}

		secret := e.cfg.Auth.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			e.log.Warn("JWT_SECRET is not set, using a random secret; sessions end when the server restarts")
		}

		// Stores
		legislationStore := store.NewLegislationStore(e.db)
		commentStore := store.NewCommentStore(e.db)
		analysisStore := store.NewAnalysisStore(e.db)
		officialStore := store.NewOfficialStore(e.db)

		analytics, cache, closeCache := analyticsDeps(ctx, e)
		defer closeCache()

		legislation := service.NewLegislationService(legislationStore, e.log)

		app := fiber.New(fiber.Config{
			AppName: e.cfg.Server.AppName,
		})

		app.Use(recover.New())
		app.Use(logger.New())

		handlers.Register(app, handlers.Deps{
			Legislation:   legislation,
			Feedback:      service.NewFeedbackService(commentStore, analytics, e.cfg.SentimentTimeout(), e.log),
			Analyzer:      service.NewAnalyzer(commentStore, analysisStore, analytics, cache, e.cfg.Analytics.TopWords, e.log),
			Metrics:       service.NewMetricsService(legislation, commentStore),
			Auth:          service.NewAuthService(officialStore, secret, e.cfg.TokenTTL(), e.log),
			Guards:        service.NewGuardRegistry(),
			DB:            e.db,
			Analytics:     analytics,
			Log:           e.log,
			SecureCookies: secureCookies,
		})

		go func() {
			<-ctx.Done()
			e.log.Info("shutting down server")
			if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
				e.log.Error("server shutdown failed", "error", err)
			}
		}()

		e.log.Info("starting server", "port", e.cfg.Server.Port)
		if err := app.Listen(":" + e.cfg.Server.Port); err != nil {
			e.log.Error("failed to start server", "error", err)
			return err
		}
		return nil
	},
}

// analyticsDeps builds the analytics client and, when Redis is configured
// and reachable, the enrichment cache. Neither being down stops startup.
func analyticsDeps(ctx context.Context, e *env) (*service.AnalyticsClient, service.EnrichmentCache, func()) {
	analytics := service.NewAnalyticsClient(e.cfg.Analytics.BaseURL, e.cfg.AnalyticsTimeout(), e.cfg.Analytics.MaxRetries)

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := analytics.Health(probeCtx); err != nil {
		e.log.Warn("analytics service is unreachable; comments will be stored without sentiment",
			"baseUrl", e.cfg.Analytics.BaseURL, "error", err)
	}

	if e.cfg.Redis.URL == "" {
		return analytics, nil, func() {}
	}

	cache, err := service.NewRedisEnrichmentCache(e.cfg.Redis.URL, e.cfg.CacheTTL(), e.log)
	if err != nil {
		e.log.Warn("enrichment cache disabled", "error", err)
		return analytics, nil, func() {}
	}
	if err := cache.Ping(probeCtx); err != nil {
		e.log.Warn("redis is unreachable, enrichment cache disabled", "error", err)
		cache.Close()
		return analytics, nil, func() {}
	}

	e.log.Info("enrichment cache enabled", "ttl", e.cfg.CacheTTL().String())
	return analytics, cache, func() { cache.Close() }
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Create missing tables before serving")
	serveCmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Mark session cookies Secure (enable behind HTTPS)")
}
