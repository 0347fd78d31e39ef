// Package checkout turns a cart into a submitted order, falling back to a
// local pending queue when the API cannot be reached.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dosadelight/internal/cart"
	"dosadelight/internal/model"

	"github.com/rs/zerolog"
)

// SupportPhone is shown when an order could neither be sent nor saved.
const SupportPhone = "+91 98765 43210"

// DefaultConfirmationDuration is how long the order-placed state is shown.
const DefaultConfirmationDuration = 3 * time.Second

var (
	// ErrIncompleteDetails is returned when the cart is empty or a required
	// customer field is blank. Nothing is sent or saved.
	ErrIncompleteDetails = errors.New("please add items and fill in name, email, phone and address")

	// ErrInProgress is returned when a submission is already running.
	ErrInProgress = errors.New("order submission already in progress")
)

// HardFailure means the order was lost: the API call failed and the local
// fallback could not be written either.
type HardFailure struct {
	Phone string
	Err   error
}

func (e *HardFailure) Error() string {
	return fmt.Sprintf("failed to submit order, please try again or call us directly at %s: %v", e.Phone, e.Err)
}

func (e *HardFailure) Unwrap() error {
	return e.Err
}

// State is the checkout form state.
type State int

const (
	Idle State = iota
	Submitting
	Placed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Placed:
		return "placed"
	default:
		return "unknown"
	}
}

// OrderAPI submits orders to the backend.
type OrderAPI interface {
	SubmitOrder(ctx context.Context, order model.Order) (string, error)
}

// Result describes a placed order.
type Result struct {
	OrderID string
	// Local is true when the order went to the pending queue instead of
	// the API.
	Local bool
}

// Checkout drives one customer's cart through order submission.
type Checkout struct {
	cart         *cart.Cart
	api          OrderAPI
	pending      *PendingQueue
	confirmation time.Duration
	now          func() time.Time
	logger       zerolog.Logger

	mu       sync.Mutex
	state    State
	placedAt time.Time
}

// New creates a checkout for c. A non-positive confirmation duration uses
// DefaultConfirmationDuration.
func New(c *cart.Cart, api OrderAPI, pending *PendingQueue, confirmation time.Duration, logger zerolog.Logger) *Checkout {
	return newCheckout(c, api, pending, confirmation, time.Now, logger)
}

func newCheckout(c *cart.Cart, api OrderAPI, pending *PendingQueue, confirmation time.Duration, now func() time.Time, logger zerolog.Logger) *Checkout {
	if confirmation <= 0 {
		confirmation = DefaultConfirmationDuration
	}
	return &Checkout{
		cart:         c,
		api:          api,
		pending:      pending,
		confirmation: confirmation,
		now:          now,
		logger:       logger.With().Str("component", "checkout").Logger(),
	}
}

// State returns the current form state. Once the confirmation period has
// passed, a placed order resets the form to Idle and closes the cart.
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance()
	return c.state
}

// advance applies the delayed reset after an order was placed. Callers hold mu.
func (c *Checkout) advance() {
	if c.state != Placed || c.now().Sub(c.placedAt) < c.confirmation {
		return
	}

	c.state = Idle
	c.cart.Toggle()
}

// Submit places the cart as an order for the given customer.
//
// Any API failure is absorbed by saving the order to the pending queue, in
// which case Result.Local is set. Only when that save also fails is a
// *HardFailure returned. On success the cart is cleared.
func (c *Checkout) Submit(ctx context.Context, details model.CustomerDetails) (Result, error) {
	c.mu.Lock()
	c.advance()
	if c.state == Submitting {
		c.mu.Unlock()
		return Result{}, ErrInProgress
	}
	if c.cart.Len() == 0 || !complete(details) {
		c.mu.Unlock()
		return Result{}, ErrIncompleteDetails
	}

	ts := c.now()
	order := model.Order{
		OrderID:         model.NewOrderID(ts),
		CustomerDetails: details,
		Items:           c.cart.Snapshot(),
		Total:           c.cart.TotalPrice().InexactFloat64(),
		Date:            model.FormatTimestamp(ts),
	}
	c.state = Submitting
	c.mu.Unlock()

	result, err := c.send(ctx, order)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = Idle
		return Result{}, err
	}

	c.cart.Clear()
	c.state = Placed
	c.placedAt = c.now()

	return result, nil
}

// send posts order, diverting it to the pending queue on failure.
func (c *Checkout) send(ctx context.Context, order model.Order) (Result, error) {
	orderID, err := c.api.SubmitOrder(ctx, order)
	if err == nil {
		c.logger.Info().
			Str("order_id", orderID).
			Int("items", len(order.Items)).
			Msg("order placed")
		return Result{OrderID: orderID}, nil
	}

	c.logger.Warn().
		Err(err).
		Str("order_id", order.OrderID).
		Msg("order API unavailable, saving order locally")

	if qerr := c.pending.Append(order); qerr != nil {
		c.logger.Error().
			Err(qerr).
			Str("order_id", order.OrderID).
			Msg("failed to save order locally")
		return Result{}, &HardFailure{Phone: SupportPhone, Err: errors.Join(err, qerr)}
	}

	return Result{OrderID: order.OrderID, Local: true}, nil
}

// complete reports whether every required customer field is filled in.
func complete(d model.CustomerDetails) bool {
	for _, v := range []string{d.Name, d.Email, d.Phone, d.Address} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
