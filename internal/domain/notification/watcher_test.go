package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

type fakeLister struct {
	mu     sync.Mutex
	orders []order.Summary
	err    error
	calls  int
}

func (f *fakeLister) MyOrders(context.Context, string) ([]order.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]order.Summary(nil), f.orders...), f.err
}

func (f *fakeLister) set(orders ...order.Summary) {
	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
}

func (f *fakeLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCheck_ReportsOnlyChangedStatuses(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{}
	w := NewWatcher(lister, storage.NewMemory(), time.Minute, logger.Discard())

	lister.set(
		order.Summary{ID: "o1", OrderNumber: "ORD-1", Status: order.OrderStatusPending},
		order.Summary{ID: "o2", OrderNumber: "ORD-2", Status: order.OrderStatusPending},
	)
	changes, err := w.Check(ctx, "tok")
	if err != nil || len(changes) != 0 {
		t.Fatalf("first sighting must not notify, got %v %v", changes, err)
	}

	lister.set(
		order.Summary{ID: "o1", OrderNumber: "ORD-1", Status: order.OrderStatusShipped},
		order.Summary{ID: "o2", OrderNumber: "ORD-2", Status: order.OrderStatusPending},
		order.Summary{ID: "o3", OrderNumber: "ORD-3", Status: order.OrderStatusPending},
	)
	changes, err = w.Check(ctx, "tok")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %+v", changes)
	}
	c := changes[0]
	if c.OrderID != "o1" || c.Previous != order.OrderStatusPending || c.Current != order.OrderStatusShipped || c.Label != "Expédiée" {
		t.Fatalf("unexpected change %+v", c)
	}

	changes, _ = w.Check(ctx, "tok")
	if len(changes) != 0 {
		t.Fatalf("a change is reported once, got %+v", changes)
	}
}

func TestCheck_CorruptMapIsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	_ = mem.Set(ctx, StorageKey, "{broken")
	lister := &fakeLister{orders: []order.Summary{{ID: "o1", Status: order.OrderStatusDelivered}}}
	w := NewWatcher(lister, mem, time.Minute, logger.Discard())

	changes, err := w.Check(ctx, "tok")
	if err != nil || len(changes) != 0 {
		t.Fatalf("corrupt map behaves as empty, got %v %v", changes, err)
	}
	raw, _ := mem.Get(ctx, StorageKey)
	if raw != `{"o1":"delivered"}` {
		t.Fatalf("expected fresh map, got %s", raw)
	}
}

func TestCheck_FailureKeepsMap(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	_ = mem.Set(ctx, StorageKey, `{"o1":"pending"}`)
	w := NewWatcher(&fakeLister{err: errors.New("HTTP error! status: 500")}, mem, time.Minute, logger.Discard())

	if _, err := w.Check(ctx, "tok"); err == nil {
		t.Fatalf("expected error")
	}
	if raw, _ := mem.Get(ctx, StorageKey); raw != `{"o1":"pending"}` {
		t.Fatalf("map must be untouched, got %s", raw)
	}
}

func TestRun_SkipsWhileLoggedOutAndStopsOnCancel(t *testing.T) {
	lister := &fakeLister{}
	w := NewWatcher(lister, storage.NewMemory(), 10*time.Millisecond, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, func() string { return "" }, func([]Change) {})
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if lister.Calls() != 0 {
		t.Fatalf("logged-out visitors must not be polled")
	}
}

func TestRun_DeliversChanges(t *testing.T) {
	mem := storage.NewMemory()
	_ = mem.Set(context.Background(), StorageKey, `{"o1":"pending"}`)
	lister := &fakeLister{orders: []order.Summary{{ID: "o1", Status: order.OrderStatusConfirmed}}}
	w := NewWatcher(lister, mem, time.Hour, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan []Change, 1)
	go w.Run(ctx, func() string { return "tok" }, func(c []Change) { got <- c })

	select {
	case changes := <-got:
		if changes[0].Current != order.OrderStatusConfirmed {
			t.Fatalf("unexpected change %+v", changes[0])
		}
	case <-time.After(time.Second):
		t.Fatalf("expected an immediate check on start")
	}
}
