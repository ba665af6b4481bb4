package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// StorageKey holds the last status seen for each order id
const StorageKey = "kbeauty_seen_statuses"

// Lister fetches the visitor's order history
type Lister interface {
	MyOrders(ctx context.Context, credential string) ([]order.Summary, error)
}

// Change is an order whose status moved since it was last seen
type Change struct {
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Previous    order.OrderStatus `json:"previous"`
	Current     order.OrderStatus `json:"current"`
	Label       string            `json:"label"`
}

// Watcher diffs order statuses against what the visitor has already seen
type Watcher struct {
	mu      sync.Mutex
	lister  Lister
	storage storage.Storage
	logger  logrus.FieldLogger
	period  time.Duration
}

func NewWatcher(lister Lister, s storage.Storage, period time.Duration, logger logrus.FieldLogger) *Watcher {
	return &Watcher{
		lister:  lister,
		storage: s,
		period:  period,
		logger:  logger.WithField("component", "notifications"),
	}
}

// Check fetches the current orders and reports those whose status differs
// from the one previously seen. Orders seen for the first time are recorded
// but not reported. The stored map is replaced by the current statuses.
func (w *Watcher) Check(ctx context.Context, credential string) ([]Change, error) {
	orders, err := w.lister.MyOrders(ctx, credential)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	seen := map[string]order.OrderStatus{}
	if _, err := storage.LoadJSON(ctx, w.storage, StorageKey, &seen); err != nil {
		w.logger.WithError(err).Warn("Discarding unreadable seen statuses")
		seen = map[string]order.OrderStatus{}
	}

	var changes []Change
	current := make(map[string]order.OrderStatus, len(orders))
	for _, o := range orders {
		current[o.ID] = o.Status
		prev, ok := seen[o.ID]
		if ok && prev != "" && prev != o.Status {
			changes = append(changes, Change{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				Previous:    prev,
				Current:     o.Status,
				Label:       o.Status.Label(),
			})
		}
	}

	if err := storage.SaveJSON(ctx, w.storage, StorageKey, current); err != nil {
		w.logger.WithError(err).Warn("Failed to persist seen statuses")
	}
	return changes, nil
}

// Run polls until ctx is done. Ticks are skipped while credential returns
// an empty string; errors are logged and the next tick proceeds.
func (w *Watcher) Run(ctx context.Context, credential func() string, onChange func([]Change)) {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	poll := func() {
		cred := credential()
		if cred == "" {
			return
		}
		changes, err := w.Check(ctx, cred)
		if err != nil {
			if ctx.Err() == nil {
				w.logger.WithError(err).Warn("Failed to check order statuses")
			}
			return
		}
		if len(changes) > 0 {
			onChange(changes)
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
