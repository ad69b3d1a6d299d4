package service

import (
	"context"

	"oacmarket/internal/engagement"
	"oacmarket/internal/middleware"
	"oacmarket/internal/models"
	"oacmarket/internal/notifications"
	"oacmarket/internal/observability"
	"oacmarket/internal/repository"
)

type EngagementService struct {
	store       *engagement.Store
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	notifier    *notifications.Notifier
}

func NewEngagementService(
	store *engagement.Store,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	notifier *notifications.Notifier,
) *EngagementService {
	return &EngagementService{
		store:       store,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		notifier:    notifier,
	}
}

// Like records a visitor's like and returns the new count. Each visitor's
// first like on a product triggers a seller notification; repeats stay
// silent.
func (s *EngagementService) Like(ctx context.Context, productID uint, visitorID string) (int, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		observability.LikesTotal.WithLabelValues("like", "missing_product").Inc()
		return 0, err
	}

	count, first, err := s.store.Like(ctx, productID, visitorID)
	if err != nil {
		observability.LikesTotal.WithLabelValues("like", "error").Inc()
		return count, err
	}
	observability.LikesTotal.WithLabelValues("like", "ok").Inc()

	if first {
		if err := s.notifier.PublishFirstLike(ctx, productID); err != nil {
			middleware.Logger.Warn("failed to publish first-like event",
				"product_id", productID, "error", err)
		}
	}
	return count, nil
}

// Unlike removes a visitor's like and returns the new count.
func (s *EngagementService) Unlike(ctx context.Context, productID uint, visitorID string) (int, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		observability.LikesTotal.WithLabelValues("unlike", "missing_product").Inc()
		return 0, err
	}

	count, err := s.store.Unlike(ctx, productID, visitorID)
	if err != nil {
		observability.LikesTotal.WithLabelValues("unlike", "error").Inc()
		return count, err
	}
	observability.LikesTotal.WithLabelValues("unlike", "ok").Inc()
	return count, nil
}

// Liked reports whether the visitor currently likes the product.
func (s *EngagementService) Liked(productID uint, visitorID string) bool {
	return s.store.Liked(productID, visitorID)
}

// PostMessage leaves a guest message on a store page.
func (s *EngagementService) PostMessage(ctx context.Context, storeID uint, author, text string) (engagement.Message, error) {
	if text == "" {
		return engagement.Message{}, models.NewValidationError("Message text is required")
	}
	if len(text) > 2000 {
		return engagement.Message{}, models.NewValidationError("Message too long (max 2000 characters)")
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return engagement.Message{}, err
	}

	msg := s.store.PostMessage(storeID, author, text)
	observability.GuestMessagesTotal.Inc()
	return msg, nil
}

// Messages returns a store's guest messages.
func (s *EngagementService) Messages(storeID uint) []engagement.Message {
	return s.store.Messages(storeID)
}
