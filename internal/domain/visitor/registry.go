// Package visitor assembles the per-visitor stores and keeps recently active
// visitors in memory.
package visitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
	"github.com/your-org/kbeauty-storefront/internal/domain/favorites"
	"github.com/your-org/kbeauty-storefront/internal/domain/notification"
	"github.com/your-org/kbeauty-storefront/internal/domain/search"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidID is returned for an empty visitor id
var ErrInvalidID = errors.New("invalid visitor id")

// Backend is everything the visitor stores need from the backend API
type Backend interface {
	session.Identity
	search.Suggester
	notification.Lister
}

// Purger is implemented by storage drivers that expire rows themselves
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Options tune the stores built for each visitor
type Options struct {
	SearchDebounce   time.Duration
	PopularSearches  []string
	StatusPollPeriod time.Duration
	IdleTTL          time.Duration
}

// Visitor is one browser's state
type Visitor struct {
	ID            string
	Cart          *cart.Store
	Favorites     *favorites.Store
	Session       *session.Store
	Search        *search.Service
	Notifications *notification.Watcher

	mu       sync.Mutex
	lastSeen time.Time
	holds    int
	unsubs   []func()
}

// Hold marks the visitor as in use until the returned func is called.
// Held visitors are never evicted.
func (v *Visitor) Hold() func() {
	v.mu.Lock()
	v.holds++
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.holds--
			v.lastSeen = time.Now()
			v.mu.Unlock()
		})
	}
}

func (v *Visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince(now time.Time, ttl time.Duration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.holds == 0 && now.Sub(v.lastSeen) >= ttl
}

func (v *Visitor) close() {
	v.Search.Close()
	for _, unsub := range v.unsubs {
		unsub()
	}
}

// Registry builds visitors on first use and caches them. Loads for different
// ids run in parallel; concurrent loads of the same id share one build.
type Registry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor
	loads    singleflight.Group

	storage storage.Storage
	backend Backend
	opts    Options
	logger  logrus.FieldLogger
	now     func() time.Time
}

// NewRegistry creates a registry over the shared durable storage
func NewRegistry(s storage.Storage, backend Backend, opts Options, logger logrus.FieldLogger) *Registry {
	return &Registry{
		visitors: make(map[string]*Visitor),
		storage:  s,
		backend:  backend,
		opts:     opts,
		logger:   logger.WithField("component", "visitors"),
		now:      time.Now,
	}
}

// Get returns the visitor for id, rehydrating its stores on first use. A
// failed load is returned and nothing is cached, so the next call retries.
func (r *Registry) Get(ctx context.Context, id string) (*Visitor, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if v := r.cached(id); v != nil {
		return v, nil
	}

	res, err, _ := r.loads.Do(id, func() (interface{}, error) {
		if v := r.cached(id); v != nil {
			return v, nil
		}
		v, err := r.build(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		v.touch(r.now())
		r.visitors[id] = v
		r.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Visitor), nil
}

func (r *Registry) cached(id string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok {
		return nil
	}
	v.touch(r.now())
	return v
}

// Len reports how many visitors are cached
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep evicts visitors idle for longer than the TTL. Their state stays in
// durable storage.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	var evicted []*Visitor
	for id, v := range r.visitors {
		if v.idleSince(now, r.opts.IdleTTL) {
			evicted = append(evicted, v)
			delete(r.visitors, id)
		}
	}
	r.mu.Unlock()

	for _, v := range evicted {
		v.close()
	}
	return len(evicted)
}

// Run sweeps periodically until ctx is done
func (r *Registry) Run(ctx context.Context) {
	interval := r.opts.IdleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.WithField("evicted", n).Debug("Evicted idle visitors")
			}
			if p, ok := r.storage.(Purger); ok {
				if n, err := p.Purge(ctx); err != nil {
					r.logger.WithError(err).Warn("Failed to purge expired entries")
				} else if n > 0 {
					r.logger.WithField("purged", n).Info("Purged expired entries")
				}
			}
		}
	}
}

func (r *Registry) build(ctx context.Context, id string) (*Visitor, error) {
	s := storage.Prefixed(r.storage, storage.VisitorPrefix(id))
	log := r.logger.WithField("visitor_id", id)

	v := &Visitor{
		ID:            id,
		Cart:          cart.NewStore(s, log),
		Favorites:     favorites.NewStore(s, log),
		Session:       session.NewStore(r.backend, s, log),
		Search:        search.NewService(r.backend, search.NewRecentList(s, log), r.opts.PopularSearches, r.opts.SearchDebounce, log),
		Notifications: notification.NewWatcher(r.backend, s, r.opts.StatusPollPeriod, log),
	}

	steps := []struct {
		name      string
		rehydrate func(context.Context) error
	}{
		{"cart", v.Cart.Rehydrate},
		{"favorites", v.Favorites.Rehydrate},
		{"session", v.Session.Rehydrate},
		{"recent searches", v.Search.Rehydrate},
	}
	for _, step := range steps {
		if err := step.rehydrate(ctx); err != nil {
			v.close()
			return nil, fmt.Errorf("failed to load %s: %w", step.name, err)
		}
	}

	v.unsubs = append(v.unsubs,
		v.Cart.Subscribe(func(e cart.Event) {
			log.WithFields(logrus.Fields{"event": e.Kind, "product_id": e.ProductID, "count": e.Count}).Debug("Cart changed")
		}),
		v.Favorites.Subscribe(func(e favorites.Event) {
			log.WithFields(logrus.Fields{"event": e.Kind, "product_id": e.ProductID, "count": e.Count}).Debug("Favorites changed")
		}),
		v.Session.Subscribe(func(e session.Event) {
			log.WithFields(logrus.Fields{"event": e.Kind, "authenticated": e.Authenticated}).Info("Session changed")
		}),
	)

	log.Debug("Visitor loaded")
	return v, nil
}
