package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/redis/go-redis/v9"

	"oacmarket/internal/middleware"
	"oacmarket/internal/observability"
	"oacmarket/internal/repository"
)

// Worker consumes engagement events and emails the affected seller.
// Events for products, stores, or sellers that no longer resolve are
// dropped silently; the engagement action itself has already succeeded.
type Worker struct {
	rdb      *redis.Client
	products repository.ProductRepository
	stores   repository.StoreRepository
	mailer   Mailer
	siteURL  string
}

// NewWorker wires a mail worker over the given Redis client and repositories.
func NewWorker(
	rdb *redis.Client,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	mailer Mailer,
	siteURL string,
) *Worker {
	return &Worker{
		rdb:      rdb,
		products: products,
		stores:   stores,
		mailer:   mailer,
		siteURL:  siteURL,
	}
}

// Start subscribes to the engagement channel and processes events until
// ctx is cancelled. Returns immediately with no Redis client configured.
func (w *Worker) Start(ctx context.Context) error {
	if w.rdb == nil {
		return nil
	}
	sub := w.rdb.Subscribe(ctx, EngagementChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in mail worker",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					w.handle(ctx, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

func (w *Worker) handle(ctx context.Context, payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		observability.NotificationFailures.WithLabelValues("bad_payload").Inc()
		middleware.Logger.Warn("discarding malformed engagement event", "error", err)
		return
	}

	observability.NotificationAttempts.WithLabelValues(ev.Type).Inc()

	product, err := w.products.GetByID(ctx, ev.ProductID)
	if err != nil || product == nil {
		middleware.Logger.Debug("engagement event for unresolvable product",
			"product_id", ev.ProductID, "event", ev.Type)
		return
	}
	store, err := w.stores.GetByID(ctx, product.StoreID)
	if err != nil || store == nil || store.Seller == nil || store.Seller.Email == "" {
		middleware.Logger.Debug("engagement event without reachable seller",
			"product_id", ev.ProductID, "store_id", product.StoreID)
		return
	}

	var subject, body string
	switch ev.Type {
	case EventCommentCreated:
		subject = fmt.Sprintf("Novo comentário no seu produto %q", product.Name)
		body = fmt.Sprintf("%s comentou: %s\n\nAcesse o OAC Market: %s",
			ev.Author, ev.Text, w.siteURL)
	case EventFirstLike:
		subject = fmt.Sprintf("Seu produto %q recebeu uma curtida!", product.Name)
		body = fmt.Sprintf("Seu produto %q recebeu a primeira curtida de um visitante.\n\nAcesse o OAC Market: %s",
			product.Name, w.siteURL)
	default:
		observability.NotificationFailures.WithLabelValues("unknown_event").Inc()
		middleware.Logger.Warn("unknown engagement event type", "type", ev.Type)
		return
	}

	// Single delivery attempt. Losing a notification is acceptable;
	// blocking or retrying inside the worker is not.
	if err := w.mailer.Send(store.Seller.Email, subject, body); err != nil {
		observability.NotificationFailures.WithLabelValues("smtp").Inc()
		middleware.Logger.Warn("notification delivery failed",
			"event", ev.Type, "product_id", ev.ProductID, "error", err)
	}
}
