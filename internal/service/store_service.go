package service

import (
	"context"
	"strings"

	"oacmarket/internal/authz"
	"oacmarket/internal/models"
	"oacmarket/internal/repository"
)

type StoreService struct {
	storeRepo repository.StoreRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreateStoreInput struct {
	SellerID     uint
	Name         string
	Description  string
	ProfileImage string
}

type UpdateStoreInput struct {
	UserID       uint
	StoreID      uint
	Name         string
	Description  string
	ProfileImage string
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *StoreService {
	return &StoreService{storeRepo: storeRepo, isAdmin: isAdmin}
}

// CreateStore creates the seller's store. A seller has at most one store:
// if one already exists the existing store is returned unchanged, so a
// retried or duplicated create never produces a second store.
func (s *StoreService) CreateStore(ctx context.Context, in CreateStoreInput) (*models.Store, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	existing, err := s.storeRepo.GetBySellerID(ctx, in.SellerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if in.Name == "" {
		return nil, models.NewValidationError("Store name is required")
	}
	if len(in.Name) > 120 {
		return nil, models.NewValidationError("Store name too long (max 120 characters)")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Store description is required")
	}

	store := &models.Store{
		Name:         in.Name,
		Description:  in.Description,
		ProfileImage: in.ProfileImage,
		SellerID:     in.SellerID,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		// Lost a create race against another request from the same
		// seller: the unique index on vendedor_id rejected us, so the
		// winning row is the store to return.
		if existing, getErr := s.storeRepo.GetBySellerID(ctx, in.SellerID); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return store, nil
}

// GetStore loads a store with its seller.
func (s *StoreService) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

// GetStoreBySeller returns the seller's store, or nil without error when
// none exists yet.
func (s *StoreService) GetStoreBySeller(ctx context.Context, sellerID uint) (*models.Store, error) {
	return s.storeRepo.GetBySellerID(ctx, sellerID)
}

// UpdateStore edits store fields. Only the owning seller or an admin may
// change anything; anyone else gets an unauthorized error.
func (s *StoreService) UpdateStore(ctx context.Context, in UpdateStoreInput) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutate(in.UserID, store.SellerID) {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("Not the store owner")
		}
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > 120 {
			return nil, models.NewValidationError("Store name too long (max 120 characters)")
		}
		store.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		store.Description = desc
	}
	if in.ProfileImage != "" {
		store.ProfileImage = in.ProfileImage
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}
