package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dosadelight/internal/apiclient"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// ReplayReport summarises one drain of the pending queue.
type ReplayReport struct {
	Delivered []string
	Remaining int
}

// Replayer resends queued orders once the API is reachable again.
type Replayer struct {
	api        OrderAPI
	pending    *PendingQueue
	newBackOff func() backoff.BackOff
	logger     zerolog.Logger
}

// NewReplayer creates a replayer that retries each order with exponential
// backoff for up to maxElapsed.
func NewReplayer(api OrderAPI, pending *PendingQueue, maxElapsed time.Duration, logger zerolog.Logger) *Replayer {
	return newReplayer(api, pending, func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxElapsedTime = maxElapsed
		return b
	}, logger)
}

func newReplayer(api OrderAPI, pending *PendingQueue, newBackOff func() backoff.BackOff, logger zerolog.Logger) *Replayer {
	return &Replayer{
		api:        api,
		pending:    pending,
		newBackOff: newBackOff,
		logger:     logger.With().Str("component", "replayer").Logger(),
	}
}

// Replay sends queued orders oldest first. It stops at the first order that
// still fails after retrying, so later orders never overtake it. Delivered
// orders are removed from the queue even when Replay returns an error.
func (r *Replayer) Replay(ctx context.Context) (ReplayReport, error) {
	orders, err := r.pending.All()
	if err != nil {
		return ReplayReport{}, err
	}

	delivered := make(map[string]bool)
	report := ReplayReport{Delivered: []string{}}

	var sendErr error
	for _, order := range orders {
		send := func() error {
			_, err := r.api.SubmitOrder(ctx, order)
			if err != nil && !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		notify := func(err error, wait time.Duration) {
			r.logger.Debug().
				Err(err).
				Str("order_id", order.OrderID).
				Dur("retry_in", wait).
				Msg("retrying pending order")
		}

		if err := backoff.RetryNotify(send, backoff.WithContext(r.newBackOff(), ctx), notify); err != nil {
			sendErr = fmt.Errorf("failed to replay order %s: %w", order.OrderID, err)
			break
		}

		delivered[order.OrderID] = true
		report.Delivered = append(report.Delivered, order.OrderID)

		r.logger.Info().Str("order_id", order.OrderID).Msg("pending order delivered")
	}

	if len(delivered) > 0 {
		if err := r.pending.Remove(delivered); err != nil {
			return report, err
		}
	}

	report.Remaining = len(orders) - len(delivered)

	return report, sendErr
}

// retryable reports whether resending could succeed. A rejection by the API
// other than a timeout or rate limit will not change on its own.
func retryable(err error) bool {
	var statusErr *apiclient.StatusError
	if !errors.As(err, &statusErr) {
		return true
	}

	switch statusErr.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return statusErr.StatusCode >= http.StatusInternalServerError
}
