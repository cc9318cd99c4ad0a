package server

import "github.com/gofiber/fiber/v2"

// GetMyProfile handles GET /api/profile/me
// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetMine(c.UserContext(), userID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}
