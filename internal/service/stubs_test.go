package service

import (
	"context"
	"testing"

	"oacmarket/internal/models"
)

type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	listFn           func(context.Context, int, int) ([]models.User, error)
	promoteToAdminFn func(context.Context, string, string) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) PromoteToAdmin(ctx context.Context, email, hashedPassword string) error {
	return s.promoteToAdminFn(ctx, email, hashedPassword)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:        func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		updateFn:         func(context.Context, *models.User) error { return nil },
		listFn:           func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		promoteToAdminFn: func(context.Context, string, string) error { return nil },
	}
}

type storeRepoStub struct {
	createFn        func(context.Context, *models.Store) error
	getByIDFn       func(context.Context, uint) (*models.Store, error)
	getBySellerIDFn func(context.Context, uint) (*models.Store, error)
	updateFn        func(context.Context, *models.Store) error
}

func (s *storeRepoStub) Create(ctx context.Context, store *models.Store) error {
	return s.createFn(ctx, store)
}
func (s *storeRepoStub) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storeRepoStub) GetBySellerID(ctx context.Context, sellerID uint) (*models.Store, error) {
	return s.getBySellerIDFn(ctx, sellerID)
}
func (s *storeRepoStub) Update(ctx context.Context, store *models.Store) error {
	return s.updateFn(ctx, store)
}

func noopStoreRepo() *storeRepoStub {
	return &storeRepoStub{
		createFn:        func(context.Context, *models.Store) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Store, error) { return nil, nil },
		getBySellerIDFn: func(context.Context, uint) (*models.Store, error) { return nil, nil },
		updateFn:        func(context.Context, *models.Store) error { return nil },
	}
}

type productRepoStub struct {
	createFn      func(context.Context, *models.Product) error
	getByIDFn     func(context.Context, uint) (*models.Product, error)
	listRecentFn  func(context.Context, int) ([]*models.Product, error)
	listAllFn     func(context.Context) ([]*models.Product, error)
	listByStoreFn func(context.Context, uint) ([]*models.Product, error)
	updateFn      func(context.Context, *models.Product) error
	deleteFn      func(context.Context, uint) error
	setFeaturedFn func(context.Context, uint, bool) error
	setLikesFn    func(context.Context, uint, int) error
}

func (s *productRepoStub) Create(ctx context.Context, product *models.Product) error {
	return s.createFn(ctx, product)
}
func (s *productRepoStub) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.getByIDFn(ctx, id)
}
func (s *productRepoStub) ListRecent(ctx context.Context, limit int) ([]*models.Product, error) {
	return s.listRecentFn(ctx, limit)
}
func (s *productRepoStub) ListAll(ctx context.Context) ([]*models.Product, error) {
	return s.listAllFn(ctx)
}
func (s *productRepoStub) ListByStore(ctx context.Context, storeID uint) ([]*models.Product, error) {
	return s.listByStoreFn(ctx, storeID)
}
func (s *productRepoStub) Update(ctx context.Context, product *models.Product) error {
	return s.updateFn(ctx, product)
}
func (s *productRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *productRepoStub) SetFeatured(ctx context.Context, id uint, featured bool) error {
	return s.setFeaturedFn(ctx, id, featured)
}
func (s *productRepoStub) SetLikes(ctx context.Context, id uint, likes int) error {
	return s.setLikesFn(ctx, id, likes)
}

func noopProductRepo() *productRepoStub {
	return &productRepoStub{
		createFn:      func(context.Context, *models.Product) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.Product, error) { return nil, nil },
		listRecentFn:  func(context.Context, int) ([]*models.Product, error) { return nil, nil },
		listAllFn:     func(context.Context) ([]*models.Product, error) { return nil, nil },
		listByStoreFn: func(context.Context, uint) ([]*models.Product, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Product) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		setFeaturedFn: func(context.Context, uint, bool) error { return nil },
		setLikesFn:    func(context.Context, uint, int) error { return nil },
	}
}

type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByProductFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByProduct(ctx context.Context, productID uint) ([]*models.Comment, error) {
	return s.listByProductFn(ctx, productID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(context.Context, *models.Comment) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Comment, error) { return nil, nil },
		listByProductFn: func(context.Context, uint) ([]*models.Comment, error) { return nil, nil },
	}
}

func neverAdmin(context.Context, uint) (bool, error) { return false, nil }
func alwaysAdmin(context.Context, uint) (bool, error) { return true, nil }

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok || appErr.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
