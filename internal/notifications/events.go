// Package notifications publishes engagement events to Redis and delivers
// them to sellers by email through a background worker.
package notifications

// EngagementChannel is the Redis channel all engagement events flow through.
const EngagementChannel = "events:engagement"

// Event types carried on the engagement channel.
const (
	EventCommentCreated = "comment_created"
	EventFirstLike      = "first_like"
)

// Event is the payload published when a visitor engages with a product.
type Event struct {
	Type      string `json:"type"`
	ProductID uint   `json:"produtoId"`
	Author    string `json:"autor,omitempty"`
	Text      string `json:"texto,omitempty"`
}
