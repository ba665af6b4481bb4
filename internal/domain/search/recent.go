package search

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

// MaxRecent caps the recent search list
const MaxRecent = 5

// RecentList keeps the last submitted terms, most recent first
type RecentList struct {
	mu      sync.RWMutex
	terms   []string
	storage storage.Storage
	logger  logrus.FieldLogger
}

func NewRecentList(s storage.Storage, logger logrus.FieldLogger) *RecentList {
	return &RecentList{storage: s, logger: logger}
}

// Rehydrate loads the persisted list; corrupt data starts empty
func (r *RecentList) Rehydrate(ctx context.Context) error {
	var saved []string
	_, err := storage.LoadJSON(ctx, r.storage, RecentStorageKey, &saved)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		r.logger.WithError(err).Warn("Discarding unreadable recent searches")
		saved = nil
	case err != nil:
		return err
	}

	terms := make([]string, 0, MaxRecent)
	for _, t := range saved {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(terms, t) {
			continue
		}
		if terms = append(terms, t); len(terms) == MaxRecent {
			break
		}
	}

	r.mu.Lock()
	r.terms = terms
	r.mu.Unlock()
	return nil
}

// Add moves term to the front of the list and persists it
func (r *RecentList) Add(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = pushFront(r.terms, term)
	if err := storage.SaveJSON(ctx, r.storage, RecentStorageKey, r.terms); err != nil {
		r.logger.WithError(err).Warn("Failed to persist recent searches")
	}
}

// Terms returns a copy of the list
func (r *RecentList) Terms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.terms))
	copy(out, r.terms)
	return out
}

// pushFront inserts term at the head, dropping an earlier copy and anything
// beyond MaxRecent
func pushFront(terms []string, term string) []string {
	out := make([]string, 0, MaxRecent)
	out = append(out, term)
	for _, t := range terms {
		if t != term && len(out) < MaxRecent {
			out = append(out, t)
		}
	}
	return out
}
