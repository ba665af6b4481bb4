// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
)

var (
	ErrNotAuthenticated   = errors.New("authentication required")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidAddress     = errors.New("shipping address is incomplete")
	ErrUnsupportedPayment = errors.New("payment method not supported")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
)

// Cart is the part of the cart store checkout needs
type Cart interface {
	Items() []cart.LineItem
	RemoveOrdered(ctx context.Context, ordered []cart.LineItem)
}

// Credentials supplies the visitor's bearer credential
type Credentials interface {
	Credential() string
}

// Service places and reads orders on behalf of a visitor
type Service struct {
	gateway Gateway
	logger  logrus.FieldLogger
}

// NewService creates a new order service
func NewService(gateway Gateway, logger logrus.FieldLogger) *Service {
	return &Service{
		gateway: gateway,
		logger:  logger.WithField("service", "order"),
	}
}

// PlaceOrder submits the cart as an order. The cart is cleared only once the
// backend has accepted it.
func (s *Service) PlaceOrder(ctx context.Context, c Cart, creds Credentials, req CheckoutRequest) (*Placed, error) {
	credential := creds.Credential()
	if credential == "" {
		return nil, ErrNotAuthenticated
	}

	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := validateAddress(req.ShippingAddress); err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = PaymentCashOnDelivery
	}
	if method != PaymentCashOnDelivery {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPayment, method)
	}

	body := CreateOrderRequest{
		Items:           orderItemsFromCart(items),
		ShippingAddress: req.ShippingAddress,
		DeliveryNotes:   strings.TrimSpace(req.DeliveryNotes),
		PaymentMethod:   method,
	}

	placed, err := s.gateway.CreateOrder(ctx, credential, body)
	if err != nil {
		return nil, err
	}

	c.RemoveOrdered(ctx, items)
	s.logger.WithFields(logrus.Fields{
		"order_number": placed.OrderNumber,
		"total_tnd":    placed.TotalTND.String(),
		"lines":        len(body.Items),
	}).Info("Order placed")

	return placed, nil
}

// MyOrders lists the visitor's orders, newest first
func (s *Service) MyOrders(ctx context.Context, creds Credentials) ([]Summary, error) {
	credential := creds.Credential()
	if credential == "" {
		return nil, ErrNotAuthenticated
	}
	return s.gateway.MyOrders(ctx, credential)
}

// Order returns one of the visitor's orders
func (s *Service) Order(ctx context.Context, creds Credentials, id string) (*Order, error) {
	credential := creds.Credential()
	if credential == "" {
		return nil, ErrNotAuthenticated
	}
	return s.gateway.Order(ctx, credential, id)
}

// CancelOrder cancels a pending or confirmed order and returns it refreshed
func (s *Service) CancelOrder(ctx context.Context, creds Credentials, id string) (*Order, error) {
	credential := creds.Credential()
	if credential == "" {
		return nil, ErrNotAuthenticated
	}

	o, err := s.gateway.Order(ctx, credential, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s", ErrNotCancellable, o.Status)
	}

	if err := s.gateway.CancelOrder(ctx, credential, id); err != nil {
		return nil, err
	}
	s.logger.WithField("order_number", o.OrderNumber).Info("Order cancelled")

	return s.gateway.Order(ctx, credential, id)
}

func validateAddress(a ShippingAddress) error {
	required := []string{a.FullName, a.Phone, a.AddressLine1, a.City, a.PostalCode, a.Governorate}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidAddress
		}
	}
	return nil
}

func orderItemsFromCart(lines []cart.LineItem) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID:     l.ProductID,
			ProductName:   l.Name,
			ProductImage:  l.ImageURL,
			Brand:         l.Brand,
			Quantity:      l.Quantity,
			UnitPriceTND:  l.UnitPrice,
			TotalPriceTND: l.LineTotal(),
		})
	}
	return items
}
