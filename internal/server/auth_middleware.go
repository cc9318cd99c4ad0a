package server

import (
	"context"
	"strings"

	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// tokenFromRequest prefers the x-auth-token header and falls back to an
// Authorization bearer token.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get("x-auth-token")); token != "" {
		return token
	}
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) rejectToken(c *fiber.Ctx, reason, msg string) error {
	observability.AuthFailures.WithLabelValues(reason).Inc()
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
}

// AuthRequired verifies the session token and stores the caller's id in
// c.Locals("userID") and in the user context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return s.rejectToken(c, "missing_token", msgNoToken)
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			return s.rejectToken(c, "invalid_token", msgInvalidToken)
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
		return c.Next()
	}
}
