package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/authz"
	"oacmarket/internal/featureflags"
	"oacmarket/internal/models"
	"oacmarket/internal/service"
)

// CreateStorePage handles GET /loja/criar
func (s *Server) CreateStorePage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	// A seller who already owns a store lands on it instead of the form.
	store, err := s.storeService.GetStoreBySeller(c.Context(), user.ID)
	if err == nil && store != nil {
		return c.Redirect(fmt.Sprintf("/loja/%d", store.ID), fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"page": "loja/criar"})
}

// CreateStore handles POST /loja/criar
func (s *Server) CreateStore(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req struct {
		Name        string `json:"nome" form:"nome"`
		Description string `json:"descricao" form:"descricao"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profileImage, err := s.saveUploadedImage(c, "imagemPerfil")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	store, err := s.storeService.CreateStore(c.Context(), service.CreateStoreInput{
		SellerID:     user.ID,
		Name:         req.Name,
		Description:  req.Description,
		ProfileImage: profileImage,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"loja":     store,
		"redirect": fmt.Sprintf("/loja/%d", store.ID),
	})
}

// ViewStore handles GET /loja/:id. With ?public=1 anyone gets a read-only
// view without guest messages; otherwise only the owning seller or an
// admin sees the page, and everyone else goes home.
func (s *Server) ViewStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	store, err := s.storeService.GetStore(c.Context(), storeID)
	if err != nil {
		return redirectHome(c)
	}
	products, err := s.productService.ListByStore(c.Context(), storeID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	s.markLiked(c, products)

	if c.Query("public") == "1" {
		return c.JSON(fiber.Map{
			"loja":     store,
			"produtos": products,
			"publico":  true,
		})
	}

	user := s.currentUser(c)
	if user == nil || (!authz.CanMutate(user.ID, store.SellerID) && !user.IsAdmin) {
		return redirectHome(c)
	}

	resp := fiber.Map{
		"loja":     store,
		"produtos": products,
		"publico":  false,
	}
	if s.featureFlags.Enabled(featureflags.FlagMessages, visitorID(c)) {
		resp["mensagens"] = s.engagementService.Messages(storeID)
	}
	return c.JSON(resp)
}

// EditStorePage handles GET /loja/:id/editar
func (s *Server) EditStorePage(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user := c.Locals("user").(*models.User)

	store, err := s.storeService.GetStore(c.Context(), storeID)
	if err != nil {
		return redirectHome(c)
	}
	if !authz.CanMutate(user.ID, store.SellerID) && !user.IsAdmin {
		return redirectHome(c)
	}
	return c.JSON(fiber.Map{"page": "loja/editar", "loja": store})
}

// EditStore handles POST /loja/:id/editar
func (s *Server) EditStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user := c.Locals("user").(*models.User)

	var req struct {
		Name        string `json:"nome" form:"nome"`
		Description string `json:"descricao" form:"descricao"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profileImage, err := s.saveUploadedImage(c, "imagemPerfil")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	store, err := s.storeService.UpdateStore(c.Context(), service.UpdateStoreInput{
		UserID:       user.ID,
		StoreID:      storeID,
		Name:         req.Name,
		Description:  req.Description,
		ProfileImage: profileImage,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			switch appErr.Code {
			case "UNAUTHORIZED", "NOT_FOUND":
				return redirectHome(c)
			case "VALIDATION_ERROR":
				return models.RespondWithError(c, fiber.StatusBadRequest, err)
			}
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"loja":     store,
		"redirect": fmt.Sprintf("/loja/%d", store.ID),
	})
}
