package server

import (
	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/featureflags"
	"oacmarket/internal/models"
)

// LikeProduct handles POST /produto/:id/curtir. The visitor cookie is the
// identity; liking twice leaves the count unchanged. A missing product
// answers {ok:false} instead of an error page.
func (s *Server) LikeProduct(c *fiber.Ctx) error {
	if !s.featureFlags.Enabled(featureflags.FlagLikes, visitorID(c)) {
		return c.JSON(fiber.Map{"ok": false})
	}

	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.Like(c.Context(), productID, visitorID(c))
	if err != nil {
		if models.IsNotFound(err) {
			return c.JSON(fiber.Map{"ok": false})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"ok": true, "curtidas": count})
}

// UnlikeProduct handles POST /produto/:id/descurtir.
func (s *Server) UnlikeProduct(c *fiber.Ctx) error {
	if !s.featureFlags.Enabled(featureflags.FlagLikes, visitorID(c)) {
		return c.JSON(fiber.Map{"ok": false})
	}

	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.Unlike(c.Context(), productID, visitorID(c))
	if err != nil {
		if models.IsNotFound(err) {
			return c.JSON(fiber.Map{"ok": false})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"ok": true, "curtidas": count})
}

// PostStoreMessage handles POST /loja/:id/mensagem: an anonymous guest
// message on the store page, gone on restart.
func (s *Server) PostStoreMessage(c *fiber.Ctx) error {
	if !s.featureFlags.Enabled(featureflags.FlagMessages, visitorID(c)) {
		return c.JSON(fiber.Map{"ok": false})
	}

	storeID, err := s.parseID(c, "id")
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

	msg, err := s.engagementService.PostMessage(c.Context(), storeID, req.Author, req.Text)
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

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "mensagem": msg})
}
