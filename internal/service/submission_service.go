package service

import (
	"context"
	"fmt"
	"time"

	"dosadelight/internal/model"
	"dosadelight/internal/notify"
	"dosadelight/internal/store"

	"github.com/rs/zerolog"
)

// requiredContactFields must be truthy on every contact submission.
var requiredContactFields = []string{"name", "email", "message"}

// submissionService implements SubmissionService.
type submissionService struct {
	store     store.Store
	publisher notify.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(st store.Store, publisher notify.Publisher, logger zerolog.Logger) SubmissionService {
	return newSubmissionService(st, publisher, time.Now, logger)
}

func newSubmissionService(st store.Store, publisher notify.Publisher, now func() time.Time, logger zerolog.Logger) *submissionService {
	if publisher == nil {
		publisher = notify.NewNopPublisher()
	}
	return &submissionService{
		store:     st,
		publisher: publisher,
		now:       now,
		logger:    logger.With().Str("service", "submission").Logger(),
	}
}

// SubmitOrder keeps every client field, then overwrites orderId, date and
// status with server values before appending to the orders collection.
func (s *submissionService) SubmitOrder(ctx context.Context, doc model.Document) (string, error) {
	ts := s.now()
	id := model.NewOrderID(ts)
	date := model.FormatTimestamp(ts)

	record, err := stamp(doc, map[string]string{
		"orderId": id,
		"date":    date,
		"status":  model.OrderStatusReceived,
	})
	if err != nil {
		return "", err
	}

	if err := s.store.Append(ctx, store.Orders, record); err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to save order")
		return "", &model.PersistenceError{Op: "append", Collection: string(store.Orders), Err: err}
	}

	s.logger.Info().
		Str("order_id", id).
		Msg("order received")

	s.publish(ctx, notify.Event{Kind: notify.KindOrderReceived, ID: id, Date: date})

	return id, nil
}

// SubmitContact rejects submissions missing name, email or message without
// touching the store.
func (s *submissionService) SubmitContact(ctx context.Context, doc model.Document) (string, error) {
	for _, field := range requiredContactFields {
		if !doc.Truthy(field) {
			s.logger.Warn().Str("field", field).Msg("contact submission missing required field")
			return "", model.ErrMissingFields
		}
	}

	ts := s.now()
	id := model.NewContactID(ts)
	date := model.FormatTimestamp(ts)

	record, err := stamp(doc, map[string]string{
		"id":     id,
		"date":   date,
		"status": model.ContactStatusUnread,
	})
	if err != nil {
		return "", err
	}

	if err := s.store.Append(ctx, store.Contacts, record); err != nil {
		s.logger.Error().Err(err).Str("contact_id", id).Msg("failed to save contact")
		return "", &model.PersistenceError{Op: "append", Collection: string(store.Contacts), Err: err}
	}

	s.logger.Info().
		Str("contact_id", id).
		Msg("contact submission received")

	s.publish(ctx, notify.Event{Kind: notify.KindContactReceived, ID: id, Date: date})

	return id, nil
}

// ListOrders returns the full orders collection.
func (s *submissionService) ListOrders(ctx context.Context) ([]model.Document, error) {
	return s.list(ctx, store.Orders)
}

// ListContacts returns the full contacts collection.
func (s *submissionService) ListContacts(ctx context.Context) ([]model.Document, error) {
	return s.list(ctx, store.Contacts)
}

func (s *submissionService) list(ctx context.Context, c store.Collection) ([]model.Document, error) {
	docs, err := s.store.ReadAll(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", string(c)).Msg("failed to load collection")
		return nil, &model.PersistenceError{Op: "read", Collection: string(c), Err: err}
	}
	return docs, nil
}

// publish sends event without failing the submission.
func (s *submissionService) publish(ctx context.Context, event notify.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("kind", event.Kind).
			Str("id", event.ID).
			Msg("failed to publish submission event")
	}
}

// stamp copies doc and overwrites the given server-owned fields.
func stamp(doc model.Document, fields map[string]string) (model.Document, error) {
	record := doc.Clone()
	for key, value := range fields {
		if err := record.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to stamp record: %w", err)
		}
	}
	return record, nil
}
