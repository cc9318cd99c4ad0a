package server

import (
	"path/filepath"
	"strings"

	"socialapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SetupStatic serves the built client bundle. Unknown non-API paths fall
// back to index.html so client-side routing works on reload.
func (s *Server) SetupStatic(app *fiber.App) {
	dir := s.config.StaticDir
	if dir == "" {
		dir = "client/build"
	}

	app.Static("/", dir)
	app.Get("*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Msg: "Not found"})
		}
		return c.SendFile(filepath.Join(dir, "index.html"))
	})
}
