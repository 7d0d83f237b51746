package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultMinStockQuantity = 5

type Product struct {
	ID               int                 `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	SKU              string              `json:"sku"`
	Price            decimal.Decimal     `json:"price"`
	DiscountedPrice  decimal.NullDecimal `json:"discounted_price"`
	StockQuantity    int                 `json:"stock_quantity"`
	MinStockQuantity int                 `json:"min_stock_quantity"`
	ImageURL         string              `json:"image_url"`
	IsActive         bool                `json:"is_active"`
	IsFeatured       bool                `json:"is_featured"`
	CategoryID       int                 `json:"category_id"`
	CategoryName     string              `json:"category_name,omitempty"`
	Images           []ProductImage      `json:"images,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// EffectivePrice is what a shopper pays: the discounted price when it is set
// and actually lower than the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid && p.DiscountedPrice.Decimal.IsPositive() && p.DiscountedPrice.Decimal.LessThan(p.Price) {
		return p.DiscountedPrice.Decimal
	}
	return p.Price
}

func (p Product) InStock(qty int) bool {
	return qty > 0 && p.StockQuantity >= qty
}

func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockQuantity
}

type ProductImage struct {
	ID           int       `json:"id"`
	ProductID    int       `json:"product_id"`
	ImageURL     string    `json:"image_url"`
	PublicID     string    `json:"-"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductReview struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"product_id"`
	UserID     int       `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductFilter narrows storefront listings. Zero values mean no filter.
type ProductFilter struct {
	CategoryID   int
	Search       string
	FeaturedOnly bool
	Limit        int
	Offset       int
}
