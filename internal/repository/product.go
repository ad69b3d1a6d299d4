package repository

import (
	"context"
	"errors"

	"oacmarket/internal/cache"
	"oacmarket/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// ListRecent returns the newest products with their store joined.
	ListRecent(ctx context.Context, limit int) ([]*models.Product, error)
	// ListAll returns every product with store, seller and comments joined.
	ListAll(ctx context.Context) ([]*models.Product, error)
	ListByStore(ctx context.Context, storeID uint) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	SetFeatured(ctx context.Context, id uint, featured bool) error
	// SetLikes persists the like counter derived from the engagement store.
	SetLikes(ctx context.Context, id uint, likes int) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a new ProductRepository implementation.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProductLists(ctx)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	key := cache.ProductKey(id)

	err := cache.Aside(ctx, key, &product, cache.ProductTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Store").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Product", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListRecent(ctx context.Context, limit int) ([]*models.Product, error) {
	var products []*models.Product
	err := cache.Aside(ctx, cache.RecentProductsKey(limit), &products, cache.ProductListTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("Store").
			Order("created_at DESC").
			Limit(limit).
			Find(&products).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := cache.Aside(ctx, cache.ProductsListKey, &products, cache.ProductListTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("Store").
			Preload("Store.Seller").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC")
			}).
			Find(&products).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListByStore(ctx context.Context, storeID uint) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("loja_id = ?", storeID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, product.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}

func (r *productRepository) SetFeatured(ctx context.Context, id uint, featured bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("destaque", featured)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Product", id)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}

func (r *productRepository) SetLikes(ctx context.Context, id uint, likes int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("curtidas", likes)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Product", id)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}
