// Package messaging defines the contracts for publishing domain events.
package messaging

import (
	"context"
)

const (
	// CatalogSubjectPrefix is the common prefix of every catalog event subject.
	CatalogSubjectPrefix = "catalog.product."
	// CatalogSubjects matches every catalog event subject.
	CatalogSubjects = CatalogSubjectPrefix + ">"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
