package store

import (
	"context"
	"fmt"

	"dosadelight/internal/model"
)

// Collection names one append-only array of records.
type Collection string

const (
	Orders   Collection = "orders"
	Contacts Collection = "contacts"
)

// Collections lists every collection the server initialises at startup.
var Collections = []Collection{Orders, Contacts}

// Store defines the interface for the append-only record stores.
type Store interface {
	// Ensure creates an empty collection if it does not exist yet.
	// It never truncates an existing collection.
	Ensure(ctx context.Context, c Collection) error

	// ReadAll returns every record of the collection in insertion order.
	ReadAll(ctx context.Context, c Collection) ([]model.Document, error)

	// Append adds doc to the end of the collection.
	Append(ctx context.Context, c Collection, doc model.Document) error
}

// ParseError reports stored contents that are not a valid JSON array.
type ParseError struct {
	Collection Collection
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("collection %s is not a valid JSON array: %v", e.Collection, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
