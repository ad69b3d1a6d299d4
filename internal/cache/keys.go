package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProductKeyPrefix        = "produto:%d"
	StoreKeyPrefix          = "loja:%d"
	ProductsListKey         = "produtos:list"
	RecentProductsKeyPrefix = "produtos:recentes:%d"
)

const (
	ProductTTL     = 5 * time.Minute
	StoreTTL       = 10 * time.Minute
	ProductListTTL = 1 * time.Minute
)

func ProductKey(productID uint) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

func StoreKey(storeID uint) string {
	return fmt.Sprintf(StoreKeyPrefix, storeID)
}

// RecentProductsKey caches the newest-products listing per requested size.
func RecentProductsKey(limit int) string {
	return fmt.Sprintf(RecentProductsKeyPrefix, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProduct(ctx context.Context, productID uint) {
	Invalidate(ctx, ProductKey(productID))
	InvalidateProductLists(ctx)
}

func InvalidateStore(ctx context.Context, storeID uint) {
	Invalidate(ctx, StoreKey(storeID))
}

// InvalidateProductLists drops the full listing and every size variant of
// the recent listing.
func InvalidateProductLists(ctx context.Context) {
	Invalidate(ctx, ProductsListKey)
	DeletePattern(ctx, "produtos:recentes:*")
}
