package visitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/domain/search"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

type stubBackend struct{}

func (stubBackend) Signup(context.Context, session.SignupRequest) (*session.AuthResponse, error) {
	return nil, errors.New("unused")
}

func (stubBackend) Login(context.Context, session.LoginRequest) (*session.AuthResponse, error) {
	return &session.AuthResponse{AccessToken: "tok", User: &session.User{ID: "u1"}}, nil
}

func (stubBackend) UpdateProfile(context.Context, string, session.ProfileUpdate) error { return nil }

func (stubBackend) Suggestions(context.Context, string) (*search.Suggestions, error) {
	return &search.Suggestions{}, nil
}

func (stubBackend) MyOrders(context.Context, string) ([]order.Summary, error) { return nil, nil }

func newRegistry(mem storage.Storage) *Registry {
	return NewRegistry(mem, stubBackend{}, Options{
		SearchDebounce:   time.Millisecond,
		StatusPollPeriod: time.Minute,
		IdleTTL:          time.Minute,
	}, logger.Discard())
}

func TestGet_CachesAndIsolatesVisitors(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	r := newRegistry(mem)

	a, err := r.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	again, _ := r.Get(ctx, "a")
	if a != again {
		t.Fatalf("visitor should be cached")
	}

	_ = a.Cart.AddToCart(ctx, product.Product{ID: "p1", Price: decimal.NewFromInt(10)}, 1)
	b, _ := r.Get(ctx, "b")
	if b.Cart.CartCount() != 0 {
		t.Fatalf("visitors must not share a cart")
	}
	if _, err := mem.Get(ctx, "visitor:a:kbeauty_cart"); err != nil {
		t.Fatalf("cart should be namespaced by visitor: %v", err)
	}

	if _, err := r.Get(ctx, ""); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestSweep_EvictsIdleAndRehydratesLater(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	r := newRegistry(mem)
	now := time.Now()
	r.now = func() time.Time { return now }

	v, _ := r.Get(ctx, "a")
	_, _ = v.Session.Login(ctx, "amira@example.com", "secret")
	held, _ := r.Get(ctx, "held")
	release := held.Hold()

	now = now.Add(2 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if r.Len() != 1 {
		t.Fatalf("held visitor must survive the sweep")
	}
	release()

	back, _ := r.Get(ctx, "a")
	if back == v {
		t.Fatalf("evicted visitor should be rebuilt")
	}
	if !back.Session.IsAuthenticated() {
		t.Fatalf("rebuilt visitor should rehydrate its session")
	}
}

// flakyStorage fails the first n reads
type flakyStorage struct {
	*storage.Memory
	mu    sync.Mutex
	fails int
}

func (f *flakyStorage) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	if f.fails > 0 {
		f.fails--
		f.mu.Unlock()
		return "", errors.New("i/o timeout")
	}
	f.mu.Unlock()
	return f.Memory.Get(ctx, key)
}

func TestGet_ReadFailureIsNotCachedAndKeepsSavedCart(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	saved := `[{"id":"p1","name":"Essence","price_tnd":"20","quantity":1},` +
		`{"id":"p2","name":"Toner","price_tnd":"15","quantity":2},` +
		`{"id":"p3","name":"Cream","price_tnd":"30","quantity":1}]`
	if err := mem.Set(ctx, "visitor:a:kbeauty_cart", saved); err != nil {
		t.Fatalf("seed: %v", err)
	}
	flaky := &flakyStorage{Memory: mem, fails: 1}
	r := newRegistry(flaky)

	if _, err := r.Get(ctx, "a"); err == nil {
		t.Fatalf("expected the read failure to surface")
	}
	if r.Len() != 0 {
		t.Fatalf("a failed load must not be cached")
	}
	if raw, _ := mem.Get(ctx, "visitor:a:kbeauty_cart"); raw != saved {
		t.Fatalf("saved cart must be untouched, got %s", raw)
	}

	v, err := r.Get(ctx, "a")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := len(v.Cart.Items()); got != 3 {
		t.Fatalf("expected 3 rehydrated lines, got %d", got)
	}
	_ = v.Cart.AddToCart(ctx, product.Product{ID: "p4", Price: decimal.NewFromInt(5)}, 1)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if !v.Cart.IsInCart(id) {
			t.Fatalf("expected %s in cart", id)
		}
	}
}

// gatedStorage blocks reads of one key until open is closed
type gatedStorage struct {
	*storage.Memory
	key     string
	open    chan struct{}
	started chan struct{}
	once    sync.Once

	mu    sync.Mutex
	reads int
}

func (g *gatedStorage) Get(ctx context.Context, key string) (string, error) {
	if key == g.key {
		g.mu.Lock()
		g.reads++
		g.mu.Unlock()
		g.once.Do(func() { close(g.started) })
		<-g.open
	}
	return g.Memory.Get(ctx, key)
}

func TestGet_SlowLoadDoesNotBlockOtherVisitors(t *testing.T) {
	ctx := context.Background()
	gated := &gatedStorage{
		Memory:  storage.NewMemory(),
		key:     "visitor:slow:kbeauty_cart",
		open:    make(chan struct{}),
		started: make(chan struct{}),
	}
	r := newRegistry(gated)

	const callers = 4
	results := make(chan *Visitor, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.Get(ctx, "slow")
			if err != nil {
				t.Errorf("get slow: %v", err)
			}
			results <- v
		}()
	}
	<-gated.started

	done := make(chan error, 1)
	go func() {
		_, err := r.Get(ctx, "fast")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("get fast: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("loading one visitor blocked another")
	}

	close(gated.open)
	wg.Wait()
	close(results)

	var first *Visitor
	for v := range results {
		if first == nil {
			first = v
		}
		if v != first {
			t.Fatalf("concurrent loads of one visitor must share the result")
		}
	}
	if gated.reads != 1 {
		t.Fatalf("expected one build, got %d cart reads", gated.reads)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 cached visitors, got %d", r.Len())
	}
}
