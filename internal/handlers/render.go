package handlers

import (
	"errors"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jjenkins/econsult/internal/service"
)

// render writes a templ page with the given status
func render(c *fiber.Ctx, status int, page templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(page, templ.WithStatus(status)))
	return handler(c)
}

// statusFor maps a service error to an HTTP status and a message that is
// safe to show the caller
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrAlreadyExists):
		return fiber.StatusConflict, "a record with this id already exists"
	case errors.Is(err, service.ErrStaleSelection):
		return fiber.StatusConflict, service.ErrStaleSelection.Error()
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, service.ErrNotApproved),
		errors.Is(err, service.ErrGovIDMismatch),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized, err.Error()
	}
	return fiber.StatusInternalServerError, "something went wrong, please try again"
}

// apiError writes err as a JSON error body
func apiError(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
