// internal/domain/order/entity.go
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:   "En attente",
	OrderStatusConfirmed: "Confirmée",
	OrderStatusPreparing: "En préparation",
	OrderStatusShipped:   "Expédiée",
	OrderStatusDelivered: "Livrée",
	OrderStatusCancelled: "Annulée",
}

// Label returns the customer-facing name of the status
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// CanBeCancelled checks if an order in this status can still be cancelled
func (s OrderStatus) CanBeCancelled() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// PaymentCashOnDelivery is the only payment method the shop accepts
const PaymentCashOnDelivery = "cash_on_delivery"

// OrderItem is one product line of an order
type OrderItem struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductImage  string          `json:"product_image"`
	Brand         string          `json:"brand"`
	Quantity      int             `json:"quantity"`
	UnitPriceTND  decimal.Decimal `json:"unit_price_tnd"`
	TotalPriceTND decimal.Decimal `json:"total_price_tnd"`
}

// LineTotal is the unit price times the quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPriceTND.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Governorate  string `json:"governorate"`
}

// Order is the full order as the backend returns it
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"user_email,omitempty"`
	UserPhone       string          `json:"user_phone,omitempty"`
	Items           []OrderItem     `json:"items"`
	SubtotalTND     decimal.Decimal `json:"subtotal_tnd"`
	DeliveryFeeTND  decimal.Decimal `json:"delivery_fee_tnd"`
	DiscountTND     decimal.Decimal `json:"discount_tnd"`
	TotalTND        decimal.Decimal `json:"total_tnd"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	DeliveryNotes   string          `json:"delivery_notes,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
}

// ItemCount is the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Summary is one row of the customer's order history
type Summary struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      OrderStatus     `json:"status"`
	TotalTND    decimal.Decimal `json:"total_tnd"`
	ItemsCount  int             `json:"items_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Placed is the backend acknowledgement of a new order
type Placed struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      OrderStatus     `json:"status"`
	TotalTND    decimal.Decimal `json:"total_tnd"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CheckoutRequest is what the visitor submits at checkout
type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address"`
	DeliveryNotes   string          `json:"delivery_notes"`
	PaymentMethod   string          `json:"payment_method"`
}

// CreateOrderRequest is the body sent to the backend
type CreateOrderRequest struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	DeliveryNotes   string          `json:"delivery_notes,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
}

// StatusUpdate is the admin request to move an order to a new status
type StatusUpdate struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// Gateway is the backend collaborator for orders
type Gateway interface {
	CreateOrder(ctx context.Context, credential string, req CreateOrderRequest) (*Placed, error)
	MyOrders(ctx context.Context, credential string) ([]Summary, error)
	Order(ctx context.Context, credential, id string) (*Order, error)
	CancelOrder(ctx context.Context, credential, id string) error
}
