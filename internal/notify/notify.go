// Package notify publishes submission events to downstream consumers such as
// a kitchen display or a mailer.
package notify

import (
	"context"
)

// Event kinds published after a record is persisted.
const (
	KindOrderReceived   = "order.received"
	KindContactReceived = "contact.received"
)

// Event describes a newly persisted submission.
type Event struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Date string `json:"date"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// nopPublisher drops every event.
type nopPublisher struct{}

// NewNopPublisher returns a Publisher that does nothing.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func (nopPublisher) Close() error { return nil }
