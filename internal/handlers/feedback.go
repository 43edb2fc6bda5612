package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

func activeLegislation(c *fiber.Ctx, legislation *service.LegislationService, log *logging.Logger) []model.Legislation {
	items, err := legislation.List(c.UserContext(), model.LegislationFilter{Status: model.StatusActive})
	if err != nil {
		log.Error("failed to load active legislation", "error", err)
	}
	return items
}

func FeedbackFormHandler(legislation *service.LegislationService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, fiber.StatusOK, templates.FeedbackForm(templates.FeedbackView{
			Legislation: activeLegislation(c, legislation, log),
			Selected:    c.Query("legislationId"),
		}))
	}
}

func FeedbackSubmitHandler(feedback *service.FeedbackService, legislation *service.LegislationService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.SubmitCommentInput{
			LegislationID: c.FormValue("legislationId"),
			Text:          c.FormValue("text"),
		}
		rating := 0
		if v := strings.TrimSpace(c.FormValue("rating")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				n = -1
			}
			in.Rating = &n
			rating = n
		}

		view := templates.FeedbackView{
			Legislation: activeLegislation(c, legislation, log),
			Selected:    in.LegislationID,
		}

		if _, err := feedback.Submit(c.UserContext(), in); err != nil {
			status, msg := statusFor(err)
			view.Text = in.Text
			view.Rating = rating
			view.Flash = templates.Flash{Error: msg}
			return render(c, status, templates.FeedbackForm(view))
		}

		view.Flash = templates.Flash{Success: "Thank you, your feedback has been recorded."}
		return render(c, fiber.StatusCreated, templates.FeedbackForm(view))
	}
}

func APISubmitCommentHandler(feedback *service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SubmitCommentInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		comment, err := feedback.Submit(c.UserContext(), in)
		if err != nil {
			return apiError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(commentJSON(*comment))
	}
}

// commentJSON flattens the nullable columns for API responses
func commentJSON(c model.Comment) fiber.Map {
	out := fiber.Map{
		"commentId":      c.CommentID,
		"legislationId":  c.LegislationID,
		"text":           c.Text,
		"rating":         nil,
		"sentimentLabel": nil,
		"sentimentScore": nil,
		"createdAt":      nil,
	}
	if c.Rating.Valid {
		out["rating"] = c.Rating.Int64
	}
	if c.SentimentLabel.Valid {
		out["sentimentLabel"] = c.SentimentLabel.String
	}
	if c.SentimentScore.Valid {
		out["sentimentScore"] = c.SentimentScore.Float64
	}
	if c.CreatedAt.Valid {
		out["createdAt"] = c.CreatedAt.Time
	}
	return out
}
