// internal/domain/product/entity.go
package product

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks plain JSON numbers for every amount
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry as served by the backend
type Product struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Brand              string              `json:"brand"`
	Category           string              `json:"category"`
	Description        string              `json:"description,omitempty"`
	Price              decimal.Decimal     `json:"price"`
	PriceTND           decimal.NullDecimal `json:"price_tnd"`
	OriginalPrice      decimal.NullDecimal `json:"original_price"`
	OriginalPriceTND   decimal.NullDecimal `json:"original_price_tnd"`
	DiscountPercentage int                 `json:"discount_percentage"`
	Volume             string              `json:"volume,omitempty"`
	ImageURL           string              `json:"image_url"`
	Rating             *float64            `json:"rating,omitempty"`
	ReviewCount        int                 `json:"review_count,omitempty"`
	IsNew              bool                `json:"is_new"`
	IsBestseller       bool                `json:"is_bestseller"`
	InStock            bool                `json:"in_stock"`
	CreatedAt          *time.Time          `json:"created_at,omitempty"`
}

// UnitPrice returns the selling price, preferring the explicit TND field
func (p Product) UnitPrice() decimal.Decimal {
	if p.PriceTND.Valid {
		return p.PriceTND.Decimal
	}
	return p.Price
}

// OriginalUnitPrice returns the pre-discount price, falling back to the selling price
func (p Product) OriginalUnitPrice() decimal.Decimal {
	switch {
	case p.OriginalPriceTND.Valid:
		return p.OriginalPriceTND.Decimal
	case p.OriginalPrice.Valid:
		return p.OriginalPrice.Decimal
	default:
		return p.UnitPrice()
	}
}

// ProductList is a page of products
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// Brand with its product count
type Brand struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	LogoURL      string `json:"logo_url"`
	ProductCount int    `json:"product_count"`
}

// Category with its product count
type Category struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ImageURL     string `json:"image_url"`
	ProductCount int    `json:"product_count"`
}

// Filter holds the product listing query parameters
type Filter struct {
	Brand    string `form:"brand"`
	Category string `form:"category"`
	MinPrice *int   `form:"min_price"`
	MaxPrice *int   `form:"max_price"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// Values encodes the non-empty filter fields as a query string
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Brand != "" {
		v.Set("brand", f.Brand)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		v.Set("min_price", strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set("max_price", strconv.Itoa(*f.MaxPrice))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	return v
}
