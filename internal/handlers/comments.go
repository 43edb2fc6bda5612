package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

func commentQuery(c *fiber.Ctx) service.CommentQuery {
	return service.CommentQuery{
		LegislationID: c.Query("legislationId"),
		Sentiment:     c.Query("sentiment"),
		Page:          c.QueryInt("page", 1),
	}
}

func CommentsHandler(feedback *service.FeedbackService, legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		q := commentQuery(c)

		items, err := legislation.List(ctx, model.LegislationFilter{})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading legislation")
		}

		page, err := feedback.List(ctx, q)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading comments")
		}

		return render(c, fiber.StatusOK, templates.Comments(templates.CommentsView{
			Official:      officialName(c),
			Legislation:   items,
			LegislationID: q.LegislationID,
			Sentiment:     q.Sentiment,
			Page:          page,
		}))
	}
}

func APIListCommentsHandler(feedback *service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := feedback.List(c.UserContext(), commentQuery(c))
		if err != nil {
			return apiError(c, err)
		}

		comments := make([]fiber.Map, len(page.Comments))
		for i, cm := range page.Comments {
			comments[i] = commentJSON(cm)
		}
		return c.JSON(fiber.Map{
			"comments":   comments,
			"page":       page.Page,
			"totalPages": page.TotalPages,
			"total":      page.Total,
		})
	}
}
