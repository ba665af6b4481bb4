package favorites

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/pkg/observer"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// Store owns the set of liked products, unique by product id
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	storage storage.Storage
	logger  logrus.FieldLogger
	events  observer.Subject[Event]
}

func NewStore(s storage.Storage, logger logrus.FieldLogger) *Store {
	return &Store{
		entries: []Entry{},
		storage: s,
		logger:  logger.WithField("store", "favorites"),
	}
}

// Rehydrate loads persisted favorites; corrupt data counts as none. A failed
// read is returned without touching the current set.
func (s *Store) Rehydrate(ctx context.Context) error {
	var saved []Entry
	_, err := storage.LoadJSON(ctx, s.storage, StorageKey, &saved)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WithError(err).Warn("Discarding unreadable favorites")
		saved = nil
		if rmErr := s.storage.Remove(ctx, StorageKey); rmErr != nil {
			s.logger.WithError(rmErr).Warn("Failed to remove corrupt favorites")
		}
	case err != nil:
		return err
	}

	seen := make(map[string]bool, len(saved))
	entries := make([]Entry, 0, len(saved))
	for _, e := range saved {
		if seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		entries = append(entries, e)
	}

	s.mu.Lock()
	s.entries = entries
	ev := Event{Kind: EventRehydrated, Count: len(s.entries)}
	s.mu.Unlock()

	s.events.Notify(ev)
	return nil
}

// AddToFavorites is a no-op when p is already liked
func (s *Store) AddToFavorites(ctx context.Context, p product.Product) {
	s.mu.Lock()
	if s.indexLocked(p.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries, newEntry(p))
	s.persistLocked(ctx)
	ev := Event{Kind: EventAdded, ProductID: p.ID, Count: len(s.entries)}
	s.mu.Unlock()

	s.events.Notify(ev)
}

func (s *Store) RemoveFromFavorites(ctx context.Context, productID string) {
	s.mu.Lock()
	if i := s.indexLocked(productID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	s.persistLocked(ctx)
	ev := Event{Kind: EventRemoved, ProductID: productID, Count: len(s.entries)}
	s.mu.Unlock()

	s.events.Notify(ev)
}

// ToggleFavorite adds p when absent, removes it when present, and reports the
// resulting membership
func (s *Store) ToggleFavorite(ctx context.Context, p product.Product) bool {
	s.mu.Lock()
	var ev Event
	liked := false
	if i := s.indexLocked(p.ID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		ev = Event{Kind: EventRemoved, ProductID: p.ID}
	} else {
		s.entries = append(s.entries, newEntry(p))
		ev = Event{Kind: EventAdded, ProductID: p.ID}
		liked = true
	}
	s.persistLocked(ctx)
	ev.Count = len(s.entries)
	s.mu.Unlock()

	s.events.Notify(ev)
	return liked
}

func (s *Store) IsFavorite(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(productID) >= 0
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Items() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.Subscribe(fn)
}

func (s *Store) indexLocked(productID string) int {
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.storage, StorageKey, s.entries); err != nil {
		s.logger.WithError(err).Warn("Failed to persist favorites")
	}
}
