package service

import (
	"context"

	"dosadelight/internal/model"
)

// SubmissionService defines operations behind the submission and retrieval
// endpoints.
type SubmissionService interface {
	// SubmitOrder stamps and persists an order, returning its identifier.
	SubmitOrder(ctx context.Context, doc model.Document) (string, error)

	// SubmitContact validates, stamps and persists a contact submission,
	// returning its identifier.
	SubmitContact(ctx context.Context, doc model.Document) (string, error)

	// ListOrders returns every stored order in submission order.
	ListOrders(ctx context.Context) ([]model.Document, error)

	// ListContacts returns every stored contact submission in submission order.
	ListContacts(ctx context.Context) ([]model.Document, error)
}
