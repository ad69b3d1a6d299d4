package service

import (
	"context"
	"strings"

	"oacmarket/internal/middleware"
	"oacmarket/internal/models"
	"oacmarket/internal/notifications"
	"oacmarket/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
	notifier    *notifications.Notifier
}

type AddCommentInput struct {
	ProductID uint
	Author    string
	Text      string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// AddComment appends a visitor comment to a product. Comments are
// append-only; there is no edit or delete. An empty author is stored as
// "Anônimo". The seller is notified asynchronously; a publish failure
// never fails the comment itself.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > 2000 {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProductID: in.ProductID,
		Author:    strings.TrimSpace(in.Author),
		Text:      text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.notifier.PublishCommentCreated(ctx, in.ProductID, comment.Author, comment.Text); err != nil {
		middleware.Logger.Warn("failed to publish comment event",
			"product_id", in.ProductID, "error", err)
	}

	return comment, nil
}

// ListByProduct returns a product's comments, newest first.
func (s *CommentService) ListByProduct(ctx context.Context, productID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByProduct(ctx, productID)
}
