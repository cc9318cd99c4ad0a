package server

import (
	"errors"
	"log/slog"
	"strings"

	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a numeric route parameter. Anything that is not a positive
// integer cannot name an existing record, so it is answered with the
// resource's not-found error and errResponseWritten is returned.
func (s *Server) parseID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(resource))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// decodePayload reads the JSON body into a Payload. An empty body, or one not
// sent as application/json, decodes to an empty payload so field rules
// report what is missing. Malformed JSON is rejected.
func (s *Server) decodePayload(c *fiber.Ctx) (validation.Payload, error) {
	p := validation.Payload{}
	if len(c.Body()) == 0 || !isJSON(c) {
		return p, nil
	}
	if err := c.BodyParser(&p); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Msg: "Invalid request body"})
		return nil, errResponseWritten
	}
	return p, nil
}

func isJSON(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, fiber.MIMEApplicationJSON)
}

// userID returns the authenticated caller set by AuthRequired.
func userID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// respondError renders err with the status its AppError carries. Server
// errors are logged with their cause before the generic body is sent.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}
