package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

type token string

func (t token) Credential() string { return string(t) }

type fakeGateway struct {
	created   []CreateOrderRequest
	createErr error
	onCreate  func()
	orders    map[string]*Order
	cancelled []string
}

func (f *fakeGateway) CreateOrder(_ context.Context, _ string, req CreateOrderRequest) (*Placed, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &Placed{ID: "o1", OrderNumber: "ORD-20250107-AB12", Status: OrderStatusPending, TotalTND: decimal.NewFromInt(47)}, nil
}

func (f *fakeGateway) MyOrders(context.Context, string) ([]Summary, error) {
	var out []Summary
	for _, o := range f.orders {
		out = append(out, Summary{ID: o.ID, Status: o.Status})
	}
	return out, nil
}

func (f *fakeGateway) Order(_ context.Context, _ string, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.New("Commande non trouvée")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeGateway) CancelOrder(_ context.Context, _ string, id string) error {
	f.cancelled = append(f.cancelled, id)
	f.orders[id].Status = OrderStatusCancelled
	return nil
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	c := cart.NewStore(storage.NewMemory(), logger.Discard())
	c.Rehydrate(ctx)
	err := c.AddToCart(ctx, product.Product{
		ID:       "p1",
		Name:     "Advanced Snail 96 Mucin Power Essence",
		Brand:    "COSRX",
		Price:    decimal.NewFromInt(20),
		ImageURL: "/images/p1.png",
		InStock:  true,
	}, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return c
}

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		ShippingAddress: ShippingAddress{
			FullName:     "Amira Ben Ali",
			Phone:        "22333444",
			AddressLine1: "12 rue de Marseille",
			City:         "Tunis",
			PostalCode:   "1000",
			Governorate:  "Tunis",
		},
		DeliveryNotes: "  sonner deux fois ",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, logger.Discard())
	c := filledCart(t)

	placed, err := svc.PlaceOrder(context.Background(), c, token("tok"), validCheckout())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if placed.OrderNumber != "ORD-20250107-AB12" {
		t.Fatalf("unexpected order number %q", placed.OrderNumber)
	}
	if len(c.Items()) != 0 {
		t.Fatalf("cart should be cleared after a successful order")
	}

	req := gw.created[0]
	if req.PaymentMethod != PaymentCashOnDelivery || req.DeliveryNotes != "sonner deux fois" {
		t.Fatalf("unexpected request %+v", req)
	}
	item := req.Items[0]
	if item.ProductID != "p1" || item.Quantity != 2 || !item.UnitPriceTND.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected item %+v", item)
	}
	if !item.TotalPriceTND.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected line total 40, got %s", item.TotalPriceTND)
	}
}

func TestPlaceOrder_Rejections(t *testing.T) {
	incomplete := validCheckout()
	incomplete.ShippingAddress.Governorate = " "
	card := validCheckout()
	card.PaymentMethod = "card"

	tests := []struct {
		name  string
		token string
		empty bool
		req   CheckoutRequest
		want  error
	}{
		{"logged out", "", false, validCheckout(), ErrNotAuthenticated},
		{"empty cart", "tok", true, validCheckout(), ErrEmptyCart},
		{"incomplete address", "tok", false, incomplete, ErrInvalidAddress},
		{"card payment", "tok", false, card, ErrUnsupportedPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc := NewService(gw, logger.Discard())
			c := filledCart(t)
			if tt.empty {
				c.ClearCart(context.Background())
			}

			_, err := svc.PlaceOrder(context.Background(), c, token(tt.token), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(gw.created) != 0 {
				t.Fatalf("backend must not be called")
			}
		})
	}
}

func TestPlaceOrder_BackendFailureKeepsCart(t *testing.T) {
	backendErr := errors.New("Le panier est vide")
	svc := NewService(&fakeGateway{createErr: backendErr}, logger.Discard())
	c := filledCart(t)

	if _, err := svc.PlaceOrder(context.Background(), c, token("tok"), validCheckout()); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if c.CartCount() != 2 {
		t.Fatalf("cart must be untouched on failure")
	}
}

func TestPlaceOrder_KeepsLinesAddedDuringCheckout(t *testing.T) {
	ctx := context.Background()
	c := filledCart(t)
	gw := &fakeGateway{onCreate: func() {
		_ = c.AddToCart(ctx, product.Product{ID: "p2", Name: "Water Sleeping Mask", Price: decimal.NewFromInt(30)}, 1)
	}}
	svc := NewService(gw, logger.Discard())

	if _, err := svc.PlaceOrder(ctx, c, token("tok"), validCheckout()); err != nil {
		t.Fatalf("place: %v", err)
	}
	if len(gw.created[0].Items) != 1 {
		t.Fatalf("only the lines present at checkout should be ordered")
	}
	if c.IsInCart("p1") {
		t.Fatalf("ordered line should be removed")
	}
	if c.ProductQuantity("p2") != 1 {
		t.Fatalf("line added during checkout should survive, got %+v", c.Items())
	}
}

func TestCancelOrder(t *testing.T) {
	gw := &fakeGateway{orders: map[string]*Order{
		"o1": {ID: "o1", Status: OrderStatusPending},
		"o2": {ID: "o2", Status: OrderStatusShipped},
	}}
	svc := NewService(gw, logger.Discard())
	ctx := context.Background()

	o, err := svc.CancelOrder(ctx, token("tok"), "o1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if o.Status != OrderStatusCancelled {
		t.Fatalf("expected refreshed cancelled order, got %s", o.Status)
	}

	if _, err := svc.CancelOrder(ctx, token("tok"), "o2"); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
	if len(gw.cancelled) != 1 {
		t.Fatalf("shipped order must not reach the backend")
	}
}

func TestOrderStatus_Label(t *testing.T) {
	if OrderStatusPreparing.Label() != "En préparation" {
		t.Fatalf("unexpected label %q", OrderStatusPreparing.Label())
	}
	if OrderStatus("lost").Label() != "lost" || OrderStatus("lost").Valid() {
		t.Fatalf("unknown statuses fall back to their raw value")
	}
}
