package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/templates"
)

const (
	sessionCookie = "econsult_session"
	claimsKey     = "claims"
)

// sessionToken reads the token from the session cookie or a bearer header
func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(sessionCookie); token != "" {
		return token
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireOfficial rejects requests without a valid session. API callers get
// 401; browsers are sent to the login page.
func RequireOfficial(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.ParseToken(sessionToken(c))
		if err != nil {
			if strings.HasPrefix(c.Path(), "/api/") {
				return apiError(c, err)
			}
			return c.Redirect("/govlogin", fiber.StatusSeeOther)
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// OptionalOfficial attaches the session claims when present and valid
func OptionalOfficial(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := auth.ParseToken(sessionToken(c)); err == nil {
			c.Locals(claimsKey, claims)
		}
		return c.Next()
	}
}

func currentClaims(c *fiber.Ctx) *service.Claims {
	claims, _ := c.Locals(claimsKey).(*service.Claims)
	return claims
}

// officialName is the display name of the signed-in official, or ""
func officialName(c *fiber.Ctx) string {
	claims := currentClaims(c)
	if claims == nil {
		return ""
	}
	if claims.Name != "" {
		return claims.Name
	}
	return claims.Subject
}

func setSessionCookie(c *fiber.Ctx, s *service.Session, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func LoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, fiber.StatusOK, templates.Login(templates.LoginView{}))
	}
}

func LoginSubmitHandler(auth *service.AuthService, secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.LoginInput{
			Email:    c.FormValue("email"),
			GovID:    c.FormValue("govId"),
			Password: c.FormValue("password"),
		}

		session, err := auth.Login(c.UserContext(), in)
		if err != nil {
			status, msg := statusFor(err)
			return render(c, status, templates.Login(templates.LoginView{
				Email: strings.TrimSpace(in.Email),
				Flash: templates.Flash{Error: msg},
			}))
		}

		setSessionCookie(c, session, secureCookies)
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// APILoginHandler returns the token in the body and sets the session cookie
func APILoginHandler(auth *service.AuthService, secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		session, err := auth.Login(c.UserContext(), in)
		if err != nil {
			return apiError(c, err)
		}

		setSessionCookie(c, session, secureCookies)
		return c.JSON(fiber.Map{
			"token":     session.Token,
			"email":     session.Email,
			"name":      session.Name,
			"expiresAt": session.ExpiresAt,
		})
	}
}
