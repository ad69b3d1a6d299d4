// Package server contains the HTTP handlers for the marketplace.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/models"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "lojaId" -> "loja ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	return s.userService.IsAdmin(ctx, userID)
}

// currentUser returns the account bound to the request session, resolved
// against the live database so a deleted or demoted account loses access
// immediately. Returns nil when the request carries no valid session.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	userID, ok := s.sessionUserID(c)
	if !ok {
		return nil
	}
	user, err := s.userService.GetByID(c.Context(), userID)
	if err != nil || user == nil {
		return nil
	}
	return user
}

// redirectHome is the uniform answer to authorization failures and missing
// entities on gated pages. A visitor cannot tell a forbidden resource from
// one that does not exist.
func redirectHome(c *fiber.Ctx) error {
	return c.Redirect("/", fiber.StatusFound)
}

// visitorID returns the like-deduplication identifier issued by the
// VisitorCookie middleware.
func visitorID(c *fiber.Ctx) string {
	if id, ok := c.Locals("visitorID").(string); ok {
		return id
	}
	return ""
}

// saveUploadedImage stores the multipart file under the given field name
// and returns its serving URL. A request without that file is not an
// error; the handler keeps whatever image the entity already had.
func (s *Server) saveUploadedImage(c *fiber.Ctx, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil || file == nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	return s.imageStore.Save(c.Context(), file.Filename, src)
}

// markLiked fills the per-visitor computed like flag on each product.
func (s *Server) markLiked(c *fiber.Ctx, products []*models.Product) {
	visitor := visitorID(c)
	if visitor == "" {
		return
	}
	for _, p := range products {
		p.Liked = s.engagementService.Liked(p.ID, visitor)
	}
}
