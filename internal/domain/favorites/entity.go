package favorites

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
)

// StorageKey is the durable key favorites are persisted under
const StorageKey = "kbeauty_favorites"

// Entry is a snapshot of a liked product's display fields
type Entry struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
}

func newEntry(p product.Product) Entry {
	return Entry{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.UnitPrice(),
		ImageURL:  p.ImageURL,
	}
}

// Event is published after every favorites mutation
type Event struct {
	Kind      string `json:"kind"`
	ProductID string `json:"product_id,omitempty"`
	Count     int    `json:"count"`
}

const (
	EventAdded      = "favorites.added"
	EventRemoved    = "favorites.removed"
	EventRehydrated = "favorites.rehydrated"
)
