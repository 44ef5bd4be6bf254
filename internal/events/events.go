package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event topics published by this service.
const (
	TopicUserRegistered    = "user.registered"
	TopicTransferCompleted = "transfer.completed"
	TopicCommentCreated    = "comment.created"
	TopicReviewCreated     = "review.created"
)

// Event is the envelope every published message uses.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with the fixed source and version stamped in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "learning-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes events to the message broker. The topic is the
// event type.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

type UserRegisteredEvent struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type TransferCompletedEvent struct {
	TransactionID uint  `json:"transaction_id"`
	PayerID       uint  `json:"payer_id"`
	PayeeID       uint  `json:"payee_id"`
	CourseID      *uint `json:"course_id,omitempty"`
	Amount        int64 `json:"amount"`
}

type CommentCreatedEvent struct {
	CommentID uint `json:"comment_id"`
	CourseID  uint `json:"course_id"`
	OwnerID   uint `json:"owner_id"`
}

type ReviewCreatedEvent struct {
	ReviewID uint    `json:"review_id"`
	CourseID uint    `json:"course_id"`
	GiverID  uint    `json:"giver_id"`
	Star     int     `json:"star"`
	Rating   float64 `json:"rating"`
}
