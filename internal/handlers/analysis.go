package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

// AnalysisHandler runs the aggregation for the selected legislation. Each
// official has one selection; a run overtaken by a newer selection is
// answered with 409 and its result is not shown.
func AnalysisHandler(analyzer *service.Analyzer, legislation *service.LegislationService, guards *service.GuardRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := strings.TrimSpace(c.Query("legislationId"))

		items, err := legislation.List(ctx, model.LegislationFilter{})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading legislation")
		}

		view := templates.AnalysisView{
			Official:      officialName(c),
			Legislation:   items,
			LegislationID: id,
		}
		if id == "" {
			return render(c, fiber.StatusOK, templates.Analysis(view))
		}

		report, err := analyzer.RunSelected(ctx, guards.For(currentClaims(c).Subject), id)
		if err != nil {
			status, msg := statusFor(err)
			view.Flash = templates.Flash{Error: msg}
			return render(c, status, templates.Analysis(view))
		}
		view.Report = report

		view.Snapshots, err = analyzer.Snapshots(ctx, id)
		if err != nil {
			view.Flash = templates.Flash{Error: "Saved analyses could not be loaded."}
		}

		return render(c, fiber.StatusOK, templates.Analysis(view))
	}
}

// SaveAnalysisHandler saves the analysis the official is looking at and
// redirects back to it
func SaveAnalysisHandler(analyzer *service.Analyzer, guards *service.GuardRegistry, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.FormValue("legislationId"))

		if _, err := analyzer.SnapshotSelected(c.UserContext(), guards.For(currentClaims(c).Subject), id); err != nil {
			status, msg := statusFor(err)
			log.Warn("analysis not saved", "legislationId", id, "status", status)
			return c.Status(status).SendString(msg)
		}

		return c.Redirect("/analysis?legislationId="+url.QueryEscape(id), fiber.StatusSeeOther)
	}
}

func APIAnalysisHandler(analyzer *service.Analyzer, guards *service.GuardRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := analyzer.RunSelected(c.UserContext(), guards.For(currentClaims(c).Subject), c.Query("legislationId"))
		if err != nil {
			return apiError(c, err)
		}
		return c.JSON(report)
	}
}

func APISaveAnalysisHandler(analyzer *service.Analyzer, guards *service.GuardRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in struct {
			LegislationID string `json:"legislationId" form:"legislationId"`
		}
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		snap, err := analyzer.SnapshotSelected(c.UserContext(), guards.For(currentClaims(c).Subject), in.LegislationID)
		if err != nil {
			return apiError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(snap)
	}
}

func APIListSnapshotsHandler(analyzer *service.Analyzer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snaps, err := analyzer.Snapshots(c.UserContext(), c.Params("id"))
		if err != nil {
			return apiError(c, err)
		}
		if snaps == nil {
			snaps = []model.AnalysisSnapshot{}
		}
		return c.JSON(snaps)
	}
}
