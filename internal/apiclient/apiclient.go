// Package apiclient talks to the DosaDelight submission API over HTTP.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dosadelight/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	ordersPath   = "/api/orders"
	contactsPath = "/api/contacts"
)

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Client is a typed client for the submission and retrieval endpoints.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key in the X-API-Key header, required by the list
// endpoints when the server has an admin key configured.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.http.SetHeader("X-API-Key", key)
		}
	}
}

// New creates a client for the API rooted at baseURL. Requests carry no
// client-side timeout and are never retried; cancellation comes from the
// caller's context.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
		logger: logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitOrder posts an order and returns the identifier the server assigned.
func (c *Client) SubmitOrder(ctx context.Context, order model.Order) (string, error) {
	var result model.SubmitOrderResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(order).
		Post(ordersPath)
	if err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	if !result.Success {
		return "", &StatusError{Method: http.MethodPost, URL: resp.Request.URL, StatusCode: resp.StatusCode(), Message: result.Message}
	}

	c.logger.Debug().Str("order_id", result.OrderID).Msg("order submitted")

	return result.OrderID, nil
}

// SubmitContact posts a contact form message.
func (c *Client) SubmitContact(ctx context.Context, contact model.Contact) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(contact).
		Post(contactsPath)
	if err != nil {
		return fmt.Errorf("failed to submit contact: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Debug().Str("email", contact.Email).Msg("contact submitted")

	return nil
}

// ListOrders fetches every stored order. Records are converted one by one,
// so a malformed field in one order never hides the others.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	docs, err := c.list(ctx, ordersPath)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, model.OrderFromDocument(doc))
	}
	return orders, nil
}

// ListContacts fetches every stored contact message.
func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	docs, err := c.list(ctx, contactsPath)
	if err != nil {
		return nil, err
	}

	contacts := make([]model.Contact, 0, len(docs))
	for _, doc := range docs {
		contacts = append(contacts, model.ContactFromDocument(doc))
	}
	return contacts, nil
}

// list fetches a collection and splits it into records. Only the array
// itself must be well formed; elements that are not objects are skipped.
func (c *Client) list(ctx context.Context, path string) ([]model.Document, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &elems); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	docs := make([]model.Document, 0, len(elems))
	for i, raw := range elems {
		doc, err := model.ParseDocument(raw)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("path", path).
				Int("index", i).
				Msg("skipping malformed record")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// checkStatus converts a non-2xx response into a StatusError, pulling the
// message out of either error envelope the API uses.
func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body(), &envelope)

	msg := envelope.Message
	if msg == "" {
		msg = envelope.Error
	}

	return &StatusError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Message:    msg,
	}
}
