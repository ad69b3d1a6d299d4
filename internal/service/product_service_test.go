package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oacmarket/internal/models"
)

func TestProductService_CreateProduct(t *testing.T) {
	t.Parallel()

	stores := noopStoreRepo()
	stores.getBySellerIDFn = func(_ context.Context, sellerID uint) (*models.Store, error) {
		if sellerID == 7 {
			return &models.Store{ID: 3, SellerID: 7}, nil
		}
		return nil, nil
	}
	products := noopProductRepo()
	var saved *models.Product
	products.createFn = func(_ context.Context, p *models.Product) error {
		saved = p
		p.ID = 10
		return nil
	}

	svc := NewProductService(products, stores, neverAdmin)

	t.Run("lands in the seller's store", func(t *testing.T) {
		product, err := svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID: 7, Name: "Caneca", Description: "Cerâmica artesanal", Price: 35.5,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(3), product.StoreID)
	})

	t.Run("seller without a store is rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID: 8, Name: "Caneca", Description: "desc", Price: 10,
		})
		assertValidationError(t, err)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID: 7, Name: "Caneca", Description: "desc", Price: -1,
		})
		assertValidationError(t, err)
	})
}

func TestProductService_DeleteProduct_Ownership(t *testing.T) {
	t.Parallel()

	products := noopProductRepo()
	products.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
		return &models.Product{ID: id, StoreID: 3}, nil
	}
	stores := noopStoreRepo()
	stores.getByIDFn = func(_ context.Context, id uint) (*models.Store, error) {
		return &models.Store{ID: id, SellerID: 7}, nil
	}

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		deleted := false
		products := *products
		products.deleteFn = func(context.Context, uint) error {
			deleted = true
			return nil
		}
		svc := NewProductService(&products, stores, neverAdmin)
		require.NoError(t, svc.DeleteProduct(context.Background(), DeleteProductInput{UserID: 7, ProductID: 10}))
		assert.True(t, deleted)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewProductService(products, stores, neverAdmin)
		err := svc.DeleteProduct(context.Background(), DeleteProductInput{UserID: 8, ProductID: 10})
		assertUnauthorizedError(t, err)
	})

	t.Run("admin deletes any product", func(t *testing.T) {
		t.Parallel()
		svc := NewProductService(products, stores, alwaysAdmin)
		require.NoError(t, svc.DeleteProduct(context.Background(), DeleteProductInput{UserID: 99, ProductID: 10}))
	})
}

func TestProductService_SetFeatured_AdminOnly(t *testing.T) {
	t.Parallel()

	products := noopProductRepo()
	var featured *bool
	products.setFeaturedFn = func(_ context.Context, _ uint, f bool) error {
		featured = &f
		return nil
	}

	t.Run("non-admin is rejected and nothing changes", func(t *testing.T) {
		svc := NewProductService(products, noopStoreRepo(), neverAdmin)
		err := svc.SetFeatured(context.Background(), 7, 10, true)
		assertUnauthorizedError(t, err)
		assert.Nil(t, featured)
	})

	t.Run("admin toggles the flag", func(t *testing.T) {
		svc := NewProductService(products, noopStoreRepo(), alwaysAdmin)
		require.NoError(t, svc.SetFeatured(context.Background(), 99, 10, true))
		require.NotNil(t, featured)
		assert.True(t, *featured)
	})
}

func TestProductService_ListRecent_ClampsLimit(t *testing.T) {
	t.Parallel()

	products := noopProductRepo()
	var gotLimit int
	products.listRecentFn = func(_ context.Context, limit int) ([]*models.Product, error) {
		gotLimit = limit
		return nil, nil
	}

	svc := NewProductService(products, noopStoreRepo(), neverAdmin)

	_, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)

	_, err = svc.ListRecent(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)

	_, err = svc.ListRecent(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
}
