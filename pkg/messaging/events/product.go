// Package events contains the catalog events published to the message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/messaging"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ProductSnapshot is the state of a product carried by an event.
type ProductSnapshot struct {
	SKU         int64   `json:"sku"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	Description string  `json:"description"`
}

// ProductChangedEvent is published after a successful catalog mutation.
// Product is empty for deletions.
type ProductChangedEvent struct {
	Action     string           `json:"action"`
	SKU        int64            `json:"sku"`
	Product    *ProductSnapshot `json:"product,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (e ProductChangedEvent) Subject() string {
	return messaging.CatalogSubjectPrefix + e.Action
}

func (e ProductChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

func ProductCreated(p ProductSnapshot, at time.Time) ProductChangedEvent {
	return ProductChangedEvent{Action: ActionCreated, SKU: p.SKU, Product: &p, OccurredAt: at}
}

func ProductUpdated(p ProductSnapshot, at time.Time) ProductChangedEvent {
	return ProductChangedEvent{Action: ActionUpdated, SKU: p.SKU, Product: &p, OccurredAt: at}
}

func ProductDeleted(sku int64, at time.Time) ProductChangedEvent {
	return ProductChangedEvent{Action: ActionDeleted, SKU: sku, OccurredAt: at}
}
