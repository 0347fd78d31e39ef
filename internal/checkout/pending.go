package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"dosadelight/internal/model"
	"dosadelight/internal/store"
)

// PendingKey names the list of orders that could not reach the API.
const PendingKey = "pendingOrders"

// PendingQueue is a JSON array file holding orders saved while the API was
// unreachable. Orders are stored exactly as they would have been sent.
type PendingQueue struct {
	path string
	mu   sync.Mutex
}

// NewPendingQueue returns a queue backed by the file at path. The file is
// created on first append.
func NewPendingQueue(path string) *PendingQueue {
	return &PendingQueue{path: path}
}

// Path returns the backing file.
func (q *PendingQueue) Path() string {
	return q.path
}

// Append adds order to the end of the queue.
func (q *PendingQueue) Append(order model.Order) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	orders, err := q.read()
	if err != nil {
		return err
	}

	return q.write(append(orders, order))
}

// All returns every queued order, oldest first. A missing file is an empty
// queue.
func (q *PendingQueue) All() ([]model.Order, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.read()
}

// Remove drops the orders whose ids are in delivered and keeps the rest in
// their original order.
func (q *PendingQueue) Remove(delivered map[string]bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	orders, err := q.read()
	if err != nil {
		return err
	}

	kept := orders[:0]
	for _, o := range orders {
		if !delivered[o.OrderID] {
			kept = append(kept, o)
		}
	}

	return q.write(kept)
}

func (q *PendingQueue) read() ([]model.Order, error) {
	data, err := os.ReadFile(q.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PendingKey, err)
	}

	orders := []model.Order{}
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PendingKey, err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (q *PendingQueue) write(orders []model.Order) error {
	if dir := filepath.Dir(q.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", PendingKey, err)
		}
	}

	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", PendingKey, err)
	}

	return store.WriteFileAtomic(q.path, data)
}
