package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
)

type fakeBackend struct {
	limit   int
	updated map[string]order.OrderStatus
}

func (f *fakeBackend) Dashboard(context.Context, string) (*DashboardStats, error) {
	return &DashboardStats{TotalOrders: 3}, nil
}

func (f *fakeBackend) AdminOrders(_ context.Context, _ string, _ order.OrderStatus, limit int) ([]order.Order, error) {
	f.limit = limit
	return nil, nil
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, _ string, id string, status order.OrderStatus) error {
	if f.updated == nil {
		f.updated = map[string]order.OrderStatus{}
	}
	f.updated[id] = status
	return nil
}

func TestGetDashboardStats_NeverNilTopProducts(t *testing.T) {
	svc := NewService(&fakeBackend{}, logger.Discard())

	stats, err := svc.GetDashboardStats(context.Background(), "tok")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TopProducts == nil {
		t.Fatalf("top products should be an empty list")
	}
}

func TestListOrders_DefaultsAndValidation(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, logger.Discard())
	ctx := context.Background()

	if _, err := svc.ListOrders(ctx, "tok", "", 0); err != nil {
		t.Fatalf("list: %v", err)
	}
	if backend.limit != DefaultOrderLimit {
		t.Fatalf("expected default limit, got %d", backend.limit)
	}
	if _, err := svc.ListOrders(ctx, "tok", "lost", 10); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, logger.Discard())
	ctx := context.Background()

	if err := svc.UpdateOrderStatus(ctx, "tok", "o1", order.OrderStatusShipped); err != nil {
		t.Fatalf("update: %v", err)
	}
	if backend.updated["o1"] != order.OrderStatusShipped {
		t.Fatalf("status not forwarded")
	}
	if err := svc.UpdateOrderStatus(ctx, "tok", "o1", "refunded"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusBreakdown(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusDelivered, TotalTND: decimal.NewFromInt(120)},
		{Status: order.OrderStatusPending, TotalTND: decimal.NewFromInt(47)},
		{Status: order.OrderStatusDelivered, TotalTND: decimal.NewFromInt(30)},
	}

	got := StatusBreakdown(orders)

	if len(got) != 2 || got[0].Status != order.OrderStatusPending {
		t.Fatalf("unexpected breakdown %+v", got)
	}
	if got[1].Count != 2 || !got[1].Revenue.Equal(decimal.NewFromInt(150)) || got[1].Label != "Livrée" {
		t.Fatalf("unexpected delivered row %+v", got[1])
	}
}
