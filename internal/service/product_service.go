package service

import (
	"context"
	"strings"

	"oacmarket/internal/authz"
	"oacmarket/internal/models"
	"oacmarket/internal/repository"
)

type ProductService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateProductInput struct {
	SellerID    uint
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

type DeleteProductInput struct {
	UserID    uint
	ProductID uint
}

func NewProductService(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		isAdmin:     isAdmin,
	}
}

// CreateProduct lists a product in the seller's store. The seller must
// already have a store; the product always lands in it.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return nil, models.NewValidationError("Product name is required")
	}
	if len(in.Name) > 200 {
		return nil, models.NewValidationError("Product name too long (max 200 characters)")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Product description is required")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}

	store, err := s.storeRepo.GetBySellerID(ctx, in.SellerID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, models.NewValidationError("Seller has no store yet")
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.ImageURL,
		StoreID:     store.ID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct loads a product with its store.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListRecent returns the newest products for the home page.
func (s *ProductService) ListRecent(ctx context.Context, limit int) ([]*models.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.productRepo.ListRecent(ctx, limit)
}

// ListAll returns every product with store, seller and comments.
func (s *ProductService) ListAll(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.ListAll(ctx)
}

// ListByStore returns a store's products.
func (s *ProductService) ListByStore(ctx context.Context, storeID uint) ([]*models.Product, error) {
	return s.productRepo.ListByStore(ctx, storeID)
}

// DeleteProduct removes a product. Allowed for the owning seller and for
// admins; anyone else gets an unauthorized error.
func (s *ProductService) DeleteProduct(ctx context.Context, in DeleteProductInput) error {
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	store, err := s.storeRepo.GetByID(ctx, product.StoreID)
	if err != nil {
		return err
	}

	if !authz.CanMutate(in.UserID, store.SellerID) {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("Not the product owner")
		}
	}

	return s.productRepo.Delete(ctx, in.ProductID)
}

// SetFeatured toggles the admin-curated highlight flag on a product.
func (s *ProductService) SetFeatured(ctx context.Context, userID, productID uint, featured bool) error {
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return s.productRepo.SetFeatured(ctx, productID, featured)
}
