package middleware

import (
	"bus_portal/constants"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func tokenFromRequest(c *fiber.Ctx) string {
	token := c.Cookies("access_token")
	if token == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

func authenticate(c *fiber.Ctx) (model.TokenClaim, error) {
	token := tokenFromRequest(c)
	if token == "" {
		return model.TokenClaim{}, errors.New("no token")
	}
	jwtToken, err := helper.ParseToken(token)
	if err != nil || !jwtToken.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return model.TokenClaim{}, err
	}
	return helper.ClaimFromToken(jwtToken, "access")
}

// Protected rejects requests without a valid access token.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenFromRequest(c) == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no token"))
		}
		claim, err := authenticate(c)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}
		c.Locals("claim", claim)
		return c.Next()
	}
}

// OptionalAuth attaches the claim when a valid token is present and lets guests through.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claim, err := authenticate(c); err == nil {
			c.Locals("claim", claim)
		}
		return c.Next()
	}
}

// RequireRole must run after Protected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, ok := helper.GetClaim(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, nil)
		}
		if !utils.IsValidValueOfConstant(claim.Role, roles) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, errors.New("role "+claim.Role+" not allowed"))
		}
		return c.Next()
	}
}

// PageGuard protects server-rendered sections. Guests are sent to the login
// page with a callbackUrl pointing back at the requested page.
func PageGuard(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, err := authenticate(c)
		if err != nil {
			return c.Redirect("/login?callbackUrl="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		if !utils.IsValidValueOfConstant(claim.Role, roles) {
			return c.Redirect("/", fiber.StatusFound)
		}
		c.Locals("claim", claim)
		return c.Next()
	}
}
