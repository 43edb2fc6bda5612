package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

// HomeHandler shows officials their dashboard and stakeholders the
// legislation currently open for comment
func HomeHandler(metrics *service.MetricsService, legislation *service.LegislationService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		view := templates.HomeView{Official: officialName(c)}

		if view.Official != "" {
			m, err := metrics.Calculate(ctx)
			if err != nil {
				log.Error("failed to calculate dashboard metrics", "error", err)
				m = &service.DashboardMetrics{}
			}
			view.Metrics = m
			return render(c, fiber.StatusOK, templates.Home(view))
		}

		active, err := legislation.List(ctx, model.LegislationFilter{Status: model.StatusActive})
		if err != nil {
			log.Error("failed to load active legislation", "error", err)
		}
		view.Active = active

		return render(c, fiber.StatusOK, templates.Home(view))
	}
}

func APIDashboardHandler(metrics *service.MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := metrics.Calculate(c.UserContext())
		if err != nil {
			return apiError(c, err)
		}
		return c.JSON(m)
	}
}
