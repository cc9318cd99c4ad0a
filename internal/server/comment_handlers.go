package server

import (
	"socialapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/post/comment/:id
// @Summary Comment on post
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.FieldErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/comment/{id} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}
	p, err := s.decodePayload(c)
	if err != nil {
		return nil
	}

	comments, err := s.postService.AddComment(c.UserContext(), userID(c), id, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/post/comment/:id/:commentId
// @Summary Delete comment
// @Description Only the comment's author may delete it
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/comment/{id}/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	comments, err := s.postService.DeleteComment(c.UserContext(), service.CommentInput{
		CallerID:  userID(c),
		PostID:    id,
		CommentID: c.Params("commentId"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comments)
}
