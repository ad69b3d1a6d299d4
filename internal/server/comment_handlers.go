package server

import (
	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/models"
	"oacmarket/internal/service"
)

// CreateComment handles POST /produto/:id/comentar. Anyone may comment;
// an empty author is stored as "Anônimo". On success the visitor goes
// back to the page they came from.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Author string `json:"autor" form:"autor"`
		Text   string `json:"texto" form:"texto"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	_, err = s.commentService.AddComment(c.Context(), service.AddCommentInput{
		ProductID: productID,
		Author:    req.Author,
		Text:      req.Text,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			switch appErr.Code {
			case "NOT_FOUND":
				return redirectHome(c)
			case "VALIDATION_ERROR":
				return models.RespondWithError(c, fiber.StatusBadRequest, err)
			}
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.RedirectBack("/produtos", fiber.StatusFound)
}
