// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
)

// StorageKey is the durable key the cart is persisted under
const StorageKey = "kbeauty_cart"

// FreeShippingThreshold is the subtotal from which delivery is free
var FreeShippingThreshold = decimal.NewFromInt(100)

// LineItem is one product in the cart. Every field except Quantity is a snapshot
// taken when the product was first added.
type LineItem struct {
	ProductID         string          `json:"id"`
	Name              string          `json:"name"`
	Brand             string          `json:"brand"`
	UnitPrice         decimal.Decimal `json:"price_tnd"`
	OriginalUnitPrice decimal.Decimal `json:"original_price_tnd"`
	DiscountPercent   int             `json:"discount_percentage"`
	ImageURL          string          `json:"image_url"`
	Quantity          int             `json:"quantity"`
	InStock           bool            `json:"in_stock"`
}

// LineTotal is UnitPrice * Quantity
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func newLineItem(p product.Product, quantity int) LineItem {
	return LineItem{
		ProductID:         p.ID,
		Name:              p.Name,
		Brand:             p.Brand,
		UnitPrice:         p.UnitPrice(),
		OriginalUnitPrice: p.OriginalUnitPrice(),
		DiscountPercent:   p.DiscountPercentage,
		ImageURL:          p.ImageURL,
		Quantity:          quantity,
		InStock:           p.InStock,
	}
}

// Summary represents calculated cart totals
type Summary struct {
	ItemCount    int             `json:"item_count"` // Number of distinct lines
	Count        int             `json:"count"`      // Sum of all quantities
	SubTotal     decimal.Decimal `json:"sub_total"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	FreeShipping bool            `json:"free_shipping"`
	Total        decimal.Decimal `json:"total"`
}

// EventKind tells subscribers what happened to the cart
type EventKind string

const (
	EventAdded      EventKind = "cart.added"
	EventRemoved    EventKind = "cart.removed"
	EventUpdated    EventKind = "cart.updated"
	EventCleared    EventKind = "cart.cleared"
	EventRehydrated EventKind = "cart.rehydrated"
)

// Event is published after every cart mutation
type Event struct {
	Kind      EventKind       `json:"kind"`
	ProductID string          `json:"product_id,omitempty"`
	Count     int             `json:"count"`
	SubTotal  decimal.Decimal `json:"sub_total"`
}
