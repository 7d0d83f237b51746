package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" form:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" form:"phone" binding:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName  string `json:"first_name" form:"first_name" binding:"omitempty,max=100"`
	LastName   string `json:"last_name" form:"last_name" binding:"omitempty,max=100"`
	Phone      string `json:"phone" form:"phone" binding:"omitempty,max=30"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" form:"postal_code" binding:"omitempty,max=20"`
	Country    string `json:"country" form:"country" binding:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required,min=6"`
}

type AddToCartRequest struct {
	ProductID int `json:"product_id" form:"product_id" binding:"required,min=1"`
	Quantity  int `json:"quantity" form:"quantity"`
}

type RemoveFromCartRequest struct {
	CartItemID int `json:"cart_item_id" form:"cart_item_id" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	CartItemID int `json:"cart_item_id" form:"cart_item_id" binding:"required,min=1"`
	Quantity   int `json:"quantity" form:"quantity"`
}

type PlaceOrderRequest struct {
	FirstName  string `json:"first_name" form:"first_name" binding:"omitempty,max=100"`
	LastName   string `json:"last_name" form:"last_name" binding:"omitempty,max=100"`
	Address    string `json:"address" form:"address" binding:"required"`
	City       string `json:"city" form:"city" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" form:"postal_code" binding:"omitempty,max=20"`
	Country    string `json:"country" form:"country" binding:"omitempty,max=100"`
	Phone      string `json:"phone" form:"phone" binding:"omitempty,max=30"`
	Notes      string `json:"notes" form:"notes" binding:"omitempty,max=500"`
	CouponCode string `json:"coupon_code" form:"coupon_code" binding:"omitempty,max=20"`
}

type PaymentRequest struct {
	OrderID     int    `json:"order_id" form:"order_id" binding:"required,min=1"`
	CardHolder  string `json:"card_holder" form:"card_holder" binding:"required"`
	CardNumber  string `json:"card_number" form:"card_number" binding:"required"`
	ExpireMonth string `json:"expire_month" form:"expire_month" binding:"required"`
	ExpireYear  string `json:"expire_year" form:"expire_year" binding:"required"`
	CVC         string `json:"cvc" form:"cvc" binding:"required"`
}

type CheckoutSummary struct {
	Items                 []CartItem      `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	ShippingAmount        decimal.Decimal `json:"shipping_amount"`
	TaxAmount             decimal.Decimal `json:"tax_amount"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	CouponCode            string          `json:"coupon_code,omitempty"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" form:"comment" binding:"omitempty,max=1000"`
}

type ProductRequest struct {
	Name             string           `json:"name" form:"name" binding:"required,max=200"`
	Description      string           `json:"description" form:"description" binding:"required"`
	SKU              string           `json:"sku" form:"sku" binding:"required,max=50"`
	Price            decimal.Decimal  `json:"price" form:"price"`
	DiscountedPrice  *decimal.Decimal `json:"discounted_price" form:"discounted_price"`
	StockQuantity    int              `json:"stock_quantity" form:"stock_quantity"`
	MinStockQuantity *int             `json:"min_stock_quantity" form:"min_stock_quantity"`
	ImageURL         string           `json:"image_url" form:"image_url" binding:"required"`
	CategoryID       int              `json:"category_id" form:"category_id" binding:"required,min=1"`
	IsActive         *bool            `json:"is_active" form:"is_active"`
	IsFeatured       bool             `json:"is_featured" form:"is_featured"`
}

type CategoryRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"image_url" form:"image_url"`
	ParentID    *int   `json:"parent_id" form:"parent_id"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" form:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number" form:"tracking_number" binding:"omitempty,max=100"`
}

type CouponRequest struct {
	Code               string          `json:"code" binding:"required,max=20"`
	Description        string          `json:"description"`
	Type               string          `json:"type" binding:"required,oneof=percentage fixed"`
	Value              decimal.Decimal `json:"value"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount"`
	UsageLimit         int             `json:"usage_limit" binding:"min=0"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
}

type HomePage struct {
	FeaturedProducts []Product  `json:"featured_products"`
	NewProducts      []Product  `json:"new_products"`
	Categories       []Category `json:"categories"`
}

type ProductDetails struct {
	Product         Product         `json:"product"`
	RelatedProducts []Product       `json:"related_products"`
	Reviews         []ProductReview `json:"reviews"`
}

type DashboardStats struct {
	TotalProducts   int     `json:"total_products"`
	TotalOrders     int     `json:"total_orders"`
	TotalUsers      int     `json:"total_users"`
	TotalCategories int     `json:"total_categories"`
	TodayOrders     int     `json:"today_orders"`
	PendingOrders   int     `json:"pending_orders"`
	LowStock        int     `json:"low_stock_products"`
	RecentOrders    []Order `json:"recent_orders"`
}
