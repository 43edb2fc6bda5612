package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

func AddLegislationPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, fiber.StatusOK, templates.AddLegislation(templates.AddLegislationView{
			Official: officialName(c),
		}))
	}
}

func AddLegislationSubmitHandler(legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.CreateLegislationInput{
			LegislationID: c.FormValue("legislationId"),
			Title:         c.FormValue("title"),
			Description:   c.FormValue("description"),
			StartDate:     c.FormValue("startDate"),
			EndDate:       c.FormValue("endDate"),
		}

		res, err := legislation.Create(c.UserContext(), in)
		if err != nil {
			status, msg := statusFor(err)
			return render(c, status, templates.AddLegislation(templates.AddLegislationView{
				Official: officialName(c),
				Values:   in,
				Flash:    templates.Flash{Error: msg},
			}))
		}

		return render(c, fiber.StatusCreated, templates.AddLegislation(templates.AddLegislationView{
			Official: officialName(c),
			Flash:    templates.Flash{Success: "Legislation " + res.ID + " created (" + string(res.Status) + ")"},
		}))
	}
}

func ListLegislationHandler(legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := statusFilter(c.Query("status"))

		items, err := legislation.List(c.UserContext(), model.LegislationFilter{Status: status})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading legislation")
		}

		return render(c, fiber.StatusOK, templates.LegislationList(templates.LegislationListView{
			Official: officialName(c),
			Items:    items,
			Status:   string(status),
		}))
	}
}

// statusFilter accepts only known statuses; anything else lists everything
func statusFilter(v string) model.Status {
	switch model.Status(v) {
	case model.StatusActive, model.StatusInactive:
		return model.Status(v)
	}
	return ""
}

func APIListLegislationHandler(legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := legislation.List(c.UserContext(), model.LegislationFilter{Status: statusFilter(c.Query("status"))})
		if err != nil {
			return apiError(c, err)
		}
		return c.JSON(items)
	}
}

func APIGetLegislationHandler(legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := legislation.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return apiError(c, err)
		}
		return c.JSON(l)
	}
}

func APICreateLegislationHandler(legislation *service.LegislationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateLegislationInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		res, err := legislation.Create(c.UserContext(), in)
		if err != nil {
			return apiError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
