package repository

import (
	"context"
	"errors"

	"oacmarket/internal/cache"
	"oacmarket/internal/models"

	"gorm.io/gorm"
)

// StoreRepository defines persistence operations for stores.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uint) (*models.Store, error)
	// GetBySellerID returns (nil, nil) when the seller has no store yet.
	GetBySellerID(ctx context.Context, sellerID uint) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository returns a new StoreRepository implementation.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Seller already has a store")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("Seller").First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Store", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &store, nil
}

func (r *storeRepository) GetBySellerID(ctx context.Context, sellerID uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("vendedor_id = ?", sellerID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &store, nil
}

func (r *storeRepository) Update(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStore(ctx, store.ID)
	return nil
}
