package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderReturned,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type ShippingInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID             int             `json:"id"`
	UserID         int             `json:"user_id"`
	OrderNumber    string          `json:"order_number"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	OrderStatus    OrderStatus     `json:"order_status"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Shipping       ShippingInfo    `json:"shipping"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PaymentID      string          `json:"payment_id,omitempty"`
	OrderDate      time.Time       `json:"order_date"`
	ShippingDate   *time.Time      `json:"shipping_date,omitempty"`
	DeliveryDate   *time.Time      `json:"delivery_date,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Items          []OrderItem     `json:"items,omitempty"`
}

func (o Order) IsPaid() bool {
	return o.PaymentStatus == PaymentCompleted
}

type OrderItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter is used by the back office order list.
type OrderFilter struct {
	Status OrderStatus
	Search string
	Limit  int
	Offset int
}
