package events

import (
	"time"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated  EventType = "product_created"
	EventProductUpdated  EventType = "product_updated"
	EventProductDeleted  EventType = "product_deleted"
	EventCatalogImported EventType = "catalog_imported"
)

// Actor encapsulates the identity behind an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProductID string      `json:"product_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ProductUpdatedPayload payload.
type ProductUpdatedPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	OwnerID  string  `json:"owner_id"`
}

// ProductDeletedPayload carries the ownership context of the decision for the
// audit trail.
type ProductDeletedPayload struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// CatalogImportedPayload payload.
type CatalogImportedPayload struct {
	BatchID string `json:"batch_id"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}
