package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"storefront/models"
	"storefront/repositories"

	"github.com/sirupsen/logrus"
)

type CheckoutService struct {
	carts    CartStore
	orders   OrderStore
	users    UserStore
	coupons  CouponStore
	pricing  Pricing
	gateway  PaymentGateway
	notifier OrderNotifications
	catalog  CatalogCache
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewCheckoutService(
	carts CartStore,
	orders OrderStore,
	users UserStore,
	coupons CouponStore,
	pricing Pricing,
	gateway PaymentGateway,
	notifier OrderNotifications,
	catalog CatalogCache,
	log logrus.FieldLogger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		users:    users,
		coupons:  coupons,
		pricing:  pricing,
		gateway:  gateway,
		notifier: notifier,
		catalog:  catalog,
		log:      log,
		now:      time.Now,
	}
}

// GenerateOrderNumber formats ORD-yyyyMMdd-HHmmss-NNNN with a random 4 digit suffix.
func GenerateOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%d", t.Format("20060102-150405"), 1000+rand.IntN(9000))
}

func (s *CheckoutService) loadCart(ctx context.Context, userID int) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}
	return cart, nil
}

// resolveCoupon returns nil for an empty code and ErrCouponInvalid for a code
// that does not exist or cannot be applied to subtotal right now.
func (s *CheckoutService) resolveCoupon(ctx context.Context, code string, cart *models.Cart) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}
	if !coupon.Applicable(cart.Total(), s.now()) {
		return nil, ErrCouponInvalid
	}
	return coupon, nil
}

func (s *CheckoutService) Summary(ctx context.Context, userID int, couponCode string) (*models.CheckoutSummary, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.resolveCoupon(ctx, couponCode, cart)
	if err != nil {
		return nil, err
	}

	totals := s.pricing.Quote(cart.Items, coupon, s.now())
	summary := &models.CheckoutSummary{
		Items:                 cart.Items,
		Subtotal:              totals.Subtotal,
		ShippingAmount:        totals.Shipping,
		TaxAmount:             totals.Tax,
		TaxRate:               s.pricing.TaxRate,
		DiscountAmount:        totals.Discount,
		TotalAmount:           totals.Total,
		FreeShippingThreshold: s.pricing.FreeShippingThreshold,
	}
	if coupon != nil {
		summary.CouponCode = coupon.Code
	}
	return summary, nil
}

// PlaceOrder turns the cart into a pending order. Stock is taken and the cart
// emptied in the same transaction as the order insert.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int, req models.PlaceOrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, it := range cart.Items {
		if !it.IsActive {
			return nil, fmt.Errorf("%w: %s is no longer available", ErrProductNotFound, it.ProductName)
		}
		if it.Quantity > it.StockQuantity {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, it.StockQuantity, it.ProductName)
		}
	}

	coupon, err := s.resolveCoupon(ctx, req.CouponCode, cart)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, ErrUserNotFound)
	}

	now := s.now()
	totals := s.pricing.Quote(cart.Items, coupon, now)

	order := &models.Order{
		UserID:         userID,
		OrderNumber:    GenerateOrderNumber(now),
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.Tax,
		ShippingAmount: totals.Shipping,
		DiscountAmount: totals.Discount,
		TotalAmount:    totals.Total,
		OrderStatus:    models.OrderPending,
		PaymentStatus:  models.PaymentPending,
		Shipping: models.ShippingInfo{
			FirstName:  firstNonEmpty(req.FirstName, user.FirstName),
			LastName:   firstNonEmpty(req.LastName, user.LastName),
			Address:    strings.TrimSpace(req.Address),
			City:       firstNonEmpty(req.City, user.City),
			PostalCode: firstNonEmpty(req.PostalCode, user.PostalCode),
			Country:    firstNonEmpty(req.Country, user.Country),
			Phone:      firstNonEmpty(req.Phone, user.Phone),
		},
		Notes:         req.Notes,
		CustomerEmail: user.Email,
		CustomerName:  user.FullName(),
	}

	couponID := 0
	if coupon != nil {
		couponID = coupon.ID
		order.CouponCode = coupon.Code
	}

	for _, it := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	if err := s.orders.Create(ctx, order, couponID); err != nil {
		if errors.Is(err, repositories.ErrCouponExhausted) {
			return nil, ErrCouponInvalid
		}
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientStock, err)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Stock changed, so cached listings may show sold out products.
	s.catalog.InvalidateCache(ctx)

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("Order placed")

	return order, nil
}

// Pay charges the stored order total through the gateway. A declined card
// marks the payment failed and leaves the order open for another attempt.
func (s *CheckoutService) Pay(ctx context.Context, userID int, req models.PaymentRequest) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, ErrAlreadyPaid
	}
	if order.OrderStatus == models.OrderCancelled || order.OrderStatus == models.OrderReturned {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidStatus, order.OrderStatus)
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		CardHolder:  req.CardHolder,
		CardNumber:  req.CardNumber,
		ExpireMonth: req.ExpireMonth,
		ExpireYear:  req.ExpireYear,
		CVC:         req.CVC,
	})
	if err != nil {
		return nil, fmt.Errorf("charge: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{"order_id": order.ID, "order_number": order.OrderNumber})

	if !result.Success {
		if err := s.orders.UpdatePayment(ctx, order.ID, models.PaymentFailed, order.OrderStatus, ""); err != nil {
			log.WithError(err).Error("Failed to record declined payment")
		}
		log.Warn("Payment declined")
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Message)
	}

	if err := s.orders.UpdatePayment(ctx, order.ID, models.PaymentCompleted, models.OrderConfirmed, result.PaymentID); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	order.PaymentStatus = models.PaymentCompleted
	order.OrderStatus = models.OrderConfirmed
	order.PaymentID = result.PaymentID

	log.WithField("payment_id", result.PaymentID).Info("Payment completed")
	s.notifier.OrderConfirmed(*order)

	return order, nil
}

// GetOrder hides other users' orders behind ErrOrderNotFound.
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreErr(err, ErrOrderNotFound)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *CheckoutService) History(ctx context.Context, userID int) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
