// Package domain defines the core outbox domain entities and types.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Account lifecycle event types written by the user use cases.
const (
	EventUserCreated   = "user.created"
	EventUserBlocked   = "user.blocked"
	EventUserUnblocked = "user.unblocked"
	EventUserDeleted   = "user.deleted"
)

// OutboxEvent represents an event in the transactional outbox pattern. Events are
// written in the same transaction as the state change they describe and drained
// by a background worker.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUserEvent builds a pending account lifecycle event for the given user.
func NewUserEvent(eventType string, userID uuid.UUID, email string) (*OutboxEvent, error) {
	payload, err := json.Marshal(map[string]any{
		"user_id": userID,
		"email":   email,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(payload),
		Status:    OutboxEventStatusPending,
		Retries:   0,
	}, nil
}
