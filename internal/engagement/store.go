// Package engagement tracks per-visitor product likes and per-store guest
// messages in process memory. Nothing here survives a restart; the only
// durable side effect is the derived like counter written through the
// CountPersister.
package engagement

import (
	"context"
	"sync"
	"time"

	"oacmarket/internal/models"
)

// CountPersister writes the derived like counter for a product. The visitor
// set is the source of truth; the persisted counter is always len(set).
type CountPersister interface {
	SetLikes(ctx context.Context, productID uint, likes int) error
}

// Message is a guest message left on a store page.
type Message struct {
	Author string    `json:"autor"`
	Text   string    `json:"texto"`
	At     time.Time `json:"data"`
}

// Store holds all ephemeral engagement state. Safe for concurrent use:
// the mutex covers the whole read-modify-persist sequence so the visitor
// set and the persisted counter cannot diverge.
type Store struct {
	mu        sync.Mutex
	likes     map[uint]map[string]struct{}
	messages  map[uint][]Message
	persister CountPersister
}

// NewStore returns an empty engagement store writing counters through p.
func NewStore(p CountPersister) *Store {
	return &Store{
		likes:     make(map[uint]map[string]struct{}),
		messages:  make(map[uint][]Message),
		persister: p,
	}
}

// Like records the visitor's like on the product. Idempotent: a repeated
// like is a no-op. Returns the resulting count and whether the like was
// newly inserted (which drives the first-like notification).
func (s *Store) Like(ctx context.Context, productID uint, visitorID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.likes[productID]
	if set == nil {
		set = make(map[string]struct{})
		s.likes[productID] = set
	}

	if _, ok := set[visitorID]; ok {
		return len(set), false, nil
	}

	set[visitorID] = struct{}{}
	if err := s.persister.SetLikes(ctx, productID, len(set)); err != nil {
		// Keep set and counter in agreement: undo the insert.
		delete(set, visitorID)
		return len(set), false, err
	}
	return len(set), true, nil
}

// Unlike removes the visitor's like if present and persists the new count.
// A no-op without a prior like; the count never goes below zero.
func (s *Store) Unlike(ctx context.Context, productID uint, visitorID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.likes[productID]
	if set == nil {
		return 0, nil
	}
	if _, ok := set[visitorID]; !ok {
		return len(set), nil
	}

	delete(set, visitorID)
	if err := s.persister.SetLikes(ctx, productID, len(set)); err != nil {
		set[visitorID] = struct{}{}
		return len(set), err
	}
	return len(set), nil
}

// Liked reports whether the visitor currently likes the product.
func (s *Store) Liked(productID uint, visitorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[productID][visitorID]
	return ok
}

// Count returns the current like count for the product.
func (s *Store) Count(productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes[productID])
}

// PostMessage appends a guest message to the store's list, creating the
// list on first use. An empty author becomes "Anônimo".
func (s *Store) PostMessage(storeID uint, author, text string) Message {
	if author == "" {
		author = models.AnonymousAuthor
	}
	msg := Message{Author: author, Text: text, At: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[storeID] = append(s.messages[storeID], msg)
	return msg
}

// Messages returns a copy of the store's guest messages in append order.
func (s *Store) Messages(storeID uint) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[storeID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
