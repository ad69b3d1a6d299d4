package server

import (
	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/models"
)

// AdminDashboard handles GET /admin: every product with store, seller and
// comments joined, for curation.
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	products, err := s.productService.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"page":     "admin",
		"produtos": products,
	})
}

// FeatureProduct handles POST /produto/:id/destaque. The dashboard is the
// destination either way; a vanished product just leaves nothing changed.
func (s *Server) FeatureProduct(c *fiber.Ctx) error {
	return s.setFeatured(c, true)
}

// UnfeatureProduct handles POST /produto/:id/remover-destaque.
func (s *Server) UnfeatureProduct(c *fiber.Ctx) error {
	return s.setFeatured(c, false)
}

func (s *Server) setFeatured(c *fiber.Ctx, featured bool) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user := c.Locals("user").(*models.User)

	if err := s.productService.SetFeatured(c.Context(), user.ID, productID, featured); err != nil {
		if !models.IsNotFound(err) {
			if appErr, ok := err.(*models.AppError); !ok || appErr.Code != "UNAUTHORIZED" {
				return models.RespondWithError(c, fiber.StatusInternalServerError, err)
			}
		}
	}
	return c.Redirect("/admin", fiber.StatusFound)
}

// GetFeatureFlags handles GET /admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags":  s.featureFlags.Raw(),
		"status": s.featureFlags.Snapshot(visitorID(c)),
	})
}
