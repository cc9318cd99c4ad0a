package server

import (
	"socialapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/post
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body object{text=string} true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.FieldErrorResponse
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	p, err := s.decodePayload(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), userID(c), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/post
// @Summary List posts
// @Description All posts, newest first
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Post
// @Router /post [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/post/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/post/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), userID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.ErrorResponse{Msg: "Post removed"})
}

// LikePost handles PUT /api/post/like/:id
// @Summary Like post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/like/{id} [put]
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Like(c.UserContext(), userID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/post/unlike/:id
// @Summary Unlike post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/unlike/{id} [put]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Unlike(c.UserContext(), userID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(likes)
}
