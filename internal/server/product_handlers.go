package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"oacmarket/internal/authz"
	"oacmarket/internal/models"
	"oacmarket/internal/service"
)

// Home handles GET /: the ten most recent products with their stores.
func (s *Server) Home(c *fiber.Ctx) error {
	products, err := s.productService.ListRecent(c.Context(), 10)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	s.markLiked(c, products)

	return c.JSON(fiber.Map{
		"page":     "home",
		"produtos": products,
	})
}

// ListProducts handles GET /produtos: every product with store, seller
// and comments joined.
func (s *Server) ListProducts(c *fiber.Ctx) error {
	products, err := s.productService.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	s.markLiked(c, products)

	return c.JSON(fiber.Map{
		"page":     "produtos",
		"produtos": products,
	})
}

// CreateProductPage handles GET /loja/:id/produto/criar
func (s *Server) CreateProductPage(c *fiber.Ctx) error {
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
	return c.JSON(fiber.Map{"page": "produto/criar", "loja": store})
}

// CreateProduct handles POST /loja/:id/produto/criar with a multipart
// image upload.
func (s *Server) CreateProduct(c *fiber.Ctx) error {
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

	var req struct {
		Name        string `json:"nome" form:"nome"`
		Description string `json:"descricao" form:"descricao"`
		Price       string `json:"preco" form:"preco"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid price"))
	}

	imageURL, err := s.saveUploadedImage(c, "imagem")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	product, err := s.productService.CreateProduct(c.Context(), service.CreateProductInput{
		SellerID:    store.SellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    imageURL,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"produto":  product,
		"redirect": fmt.Sprintf("/loja/%d", storeID),
	})
}

// DeleteProduct handles POST /produto/:id/excluir
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user := c.Locals("user").(*models.User)

	if err := s.productService.DeleteProduct(c.Context(), service.DeleteProductInput{
		UserID:    user.ID,
		ProductID: productID,
	}); err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			switch appErr.Code {
			case "UNAUTHORIZED", "NOT_FOUND":
				return redirectHome(c)
			}
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.RedirectBack("/produtos", fiber.StatusFound)
}
