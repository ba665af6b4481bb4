// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/pkg/observer"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// ErrInvalidQuantity is returned when adding fewer than one unit
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Store is the single source of truth for one visitor's cart
type Store struct {
	mu      sync.RWMutex
	items   []LineItem
	storage storage.Storage
	logger  logrus.FieldLogger
	events  observer.Subject[Event]
}

// NewStore creates an empty cart backed by s. Call Rehydrate to load saved state.
func NewStore(s storage.Storage, logger logrus.FieldLogger) *Store {
	return &Store{
		items:   []LineItem{},
		storage: s,
		logger:  logger.WithField("store", "cart"),
	}
}

// Rehydrate replaces the in-memory cart with the persisted one. A corrupt blob is
// logged, discarded and treated as an empty cart. Any other read failure is
// returned and the in-memory cart is left untouched.
func (s *Store) Rehydrate(ctx context.Context) error {
	var saved []LineItem
	_, err := storage.LoadJSON(ctx, s.storage, StorageKey, &saved)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WithError(err).Warn("Discarding unreadable cart")
		saved = nil
		if rmErr := s.storage.Remove(ctx, StorageKey); rmErr != nil {
			s.logger.WithError(rmErr).Warn("Failed to remove corrupt cart")
		}
	case err != nil:
		return err
	}

	s.mu.Lock()
	s.items = normalize(saved)
	ev := s.eventLocked(EventRehydrated, "")
	s.mu.Unlock()

	s.events.Notify(ev)
	return nil
}

// AddToCart increments the line for p or appends a snapshot of p
func (s *Store) AddToCart(ctx context.Context, p product.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	if i := s.indexLocked(p.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, newLineItem(p, quantity))
	}
	s.persistLocked(ctx)
	ev := s.eventLocked(EventAdded, p.ID)
	s.mu.Unlock()

	s.events.Notify(ev)
	return nil
}

// RemoveFromCart deletes the line for productID. Absent ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	if i := s.indexLocked(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.persistLocked(ctx)
	ev := s.eventLocked(EventRemoved, productID)
	s.mu.Unlock()

	s.events.Notify(ev)
}

// UpdateQuantity sets the quantity verbatim; zero or less removes the line
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}

	s.mu.Lock()
	if i := s.indexLocked(productID); i >= 0 {
		s.items[i].Quantity = quantity
	}
	s.persistLocked(ctx)
	ev := s.eventLocked(EventUpdated, productID)
	s.mu.Unlock()

	s.events.Notify(ev)
}

// ClearCart empties the cart
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = []LineItem{}
	s.persistLocked(ctx)
	ev := s.eventLocked(EventCleared, "")
	s.mu.Unlock()

	s.events.Notify(ev)
}

// RemoveOrdered subtracts the ordered quantities from the cart. Lines that
// reach zero are dropped; anything added after the order was taken stays.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []LineItem) {
	s.mu.Lock()
	for _, o := range ordered {
		if i := s.indexLocked(o.ProductID); i >= 0 {
			s.items[i].Quantity -= o.Quantity
		}
	}
	s.items = normalize(s.items)
	s.persistLocked(ctx)
	kind := EventUpdated
	if len(s.items) == 0 {
		kind = EventCleared
	}
	ev := s.eventLocked(kind, "")
	s.mu.Unlock()

	s.events.Notify(ev)
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// CartCount is the sum of all quantities
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

// Subtotal is the sum of snapshot price times quantity
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotalLocked()
}

// Total adds deliveryFee unless the subtotal reaches FreeShippingThreshold
func (s *Store) Total(deliveryFee decimal.Decimal) decimal.Decimal {
	return s.Summary(deliveryFee).Total
}

// Summary computes count, subtotal and total in one consistent read
func (s *Store) Summary(deliveryFee decimal.Decimal) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		ItemCount: len(s.items),
		Count:     s.countLocked(),
		SubTotal:  s.subtotalLocked(),
	}
	if sum.SubTotal.GreaterThanOrEqual(FreeShippingThreshold) {
		sum.FreeShipping = true
		sum.DeliveryFee = decimal.Zero
	} else {
		sum.DeliveryFee = deliveryFee
	}
	sum.Total = sum.SubTotal.Add(sum.DeliveryFee)
	return sum
}

// IsInCart reports whether productID has a line
func (s *Store) IsInCart(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(productID) >= 0
}

// ProductQuantity returns the quantity for productID, 0 when absent
func (s *Store) ProductQuantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Subscribe registers fn for cart events
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.Subscribe(fn)
}

func (s *Store) indexLocked(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) countLocked() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) subtotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s *Store) eventLocked(kind EventKind, productID string) Event {
	return Event{
		Kind:      kind,
		ProductID: productID,
		Count:     s.countLocked(),
		SubTotal:  s.subtotalLocked(),
	}
}

// persistLocked writes the whole cart. Failures are logged; memory stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.storage, StorageKey, s.items); err != nil {
		s.logger.WithError(err).Warn("Failed to persist cart")
	}
}

// normalize drops non-positive quantities and merges duplicate product ids
func normalize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}
