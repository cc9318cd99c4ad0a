package server

import (
	"socialapp/internal/models"
	"socialapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListAll(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "User")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUserEmail handles PUT /api/users/:id
// @Summary Change email
// @Description Users may only change their own email
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body object{email=string} true "New email"
// @Success 200 {object} models.User
// @Failure 400 {object} models.FieldErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUserEmail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "User")
	if err != nil {
		return nil
	}
	p, err := s.decodePayload(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.UpdateEmail(c.UserContext(), service.UpdateEmailInput{
		CallerID: userID(c),
		UserID:   id,
		Payload:  p,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMe handles DELETE /api/users
// @Summary Delete account
// @Description Deletes the caller and their profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ErrorResponse
// @Router /users [delete]
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	if err := s.userService.DeleteSelf(c.UserContext(), userID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.ErrorResponse{Msg: "User deleted"})
}
