package server

import "github.com/gofiber/fiber/v2"

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/users
// @Summary Register user
// @Description Create an account and return a session token
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Registration"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.FieldErrorResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	p, err := s.decodePayload(c)
	if err != nil {
		return nil
	}

	token, err := s.userService.Register(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// Login handles POST /api/auth
// @Summary Authenticate user
// @Description Exchange email and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.FieldErrorResponse
// @Router /auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	p, err := s.decodePayload(c)
	if err != nil {
		return nil
	}

	token, err := s.userService.Login(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// GetAuthUser handles GET /api/auth
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth [get]
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.UserContext(), userID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}
