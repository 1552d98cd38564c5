package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionGroup is a named product option (e.g. Size) with its allowed values.
type OptionGroup struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug,omitempty"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	Image         string           `json:"image,omitempty"`
	ImageMain     string           `json:"image_main,omitempty"`
	Options       []OptionGroup    `json:"options,omitempty"`
	AverageRating float64          `json:"average_rating,omitempty"`
	ReviewCount   int              `json:"review_count,omitempty"`
	AllowPOD      *bool            `json:"allow_pod,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	SKU           string           `json:"sku,omitempty"`
	Category      *Category        `json:"category,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	CreatedAt     *time.Time       `json:"created_at,omitempty"`
}

// UnitPrice is the discount price when one is set, the list price otherwise.
func (p Product) UnitPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// PODAllowed reports whether the product may be paid for on delivery.
// Products that predate the flag default to allowed.
func (p Product) PODAllowed() bool {
	return p.AllowPOD == nil || *p.AllowPOD
}

type Review struct {
	ID        string     `json:"id,omitempty"`
	Product   string     `json:"product,omitempty"`
	User      string     `json:"user,omitempty"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ProductQuery holds the list filters the catalogue endpoint understands.
type ProductQuery struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Ordering string `json:"ordering,omitempty"`
	MinPrice string `json:"min_price,omitempty"`
	MaxPrice string `json:"max_price,omitempty"`
	OnSale   bool   `json:"on_sale,omitempty"`
	Page     int    `json:"page,omitempty"`
}
