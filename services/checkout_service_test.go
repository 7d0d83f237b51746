package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCard = "4242424242424242"

type checkoutFixture struct {
	svc      *CheckoutService
	cart     *CartService
	products *fakeProducts
	carts    *fakeCarts
	orders   *fakeOrders
	coupons  *fakeCoupons
	notes    *recordedNotifications
	cache    *recordingInvalidator
}

func newCheckoutFixture(coupons ...models.Coupon) *checkoutFixture {
	products := newFakeProducts(catalogFixture()...)
	carts := newFakeCarts(products)
	couponStore := newFakeCoupons(coupons...)
	orders := newFakeOrders(products, carts, couponStore)
	users := newFakeUsers(
		models.User{ID: 1, Email: "ana@example.com", FirstName: "Ana", LastName: "Silva", City: "Lisbon", PostalCode: "1000", Country: "PT", Phone: "555", Role: models.RoleCustomer, IsActive: true},
		models.User{ID: 2, Email: "ben@example.com", FirstName: "Ben", LastName: "Ng", Role: models.RoleCustomer, IsActive: true},
	)
	notes := &recordedNotifications{}
	cache := &recordingInvalidator{}
	log := quietLogger()

	return &checkoutFixture{
		svc: NewCheckoutService(carts, orders, users, couponStore,
			NewPricing(29.99, 500, 0.18), NewTestPaymentGateway(testCard), notes, cache, log),
		cart:     NewCartService(carts, products, log),
		products: products,
		carts:    carts,
		orders:   orders,
		coupons:  couponStore,
		notes:    notes,
		cache:    cache,
	}
}

func (f *checkoutFixture) add(t *testing.T, userID, productID, qty int) {
	t.Helper()
	_, err := f.cart.AddToCart(context.Background(), userID, productID, qty)
	require.NoError(t, err)
}

func (f *checkoutFixture) place(t *testing.T, userID int, coupon string) *models.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), userID, models.PlaceOrderRequest{Address: "1 Main St", CouponCode: coupon})
	require.NoError(t, err)
	return order
}

func welcomeCoupon() models.Coupon {
	return models.Coupon{
		ID: 7, Code: "WELCOME10", Type: models.CouponPercentage, Value: decimal.NewFromInt(10),
		StartDate: time.Now().Add(-time.Hour), EndDate: time.Now().Add(time.Hour), IsActive: true,
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	number := GenerateOrderNumber(at)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20240309-140507-[1-9]\d{3}$`), number)
}

func TestCheckoutService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("small order pays shipping", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)

		summary, err := f.svc.Summary(ctx, 1, "")
		require.NoError(t, err)
		assert.Equal(t, "199.99", summary.Subtotal.StringFixed(2))
		assert.Equal(t, "29.99", summary.ShippingAmount.StringFixed(2))
		assert.Equal(t, "36.00", summary.TaxAmount.StringFixed(2))
		assert.Equal(t, "265.98", summary.TotalAmount.StringFixed(2))
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.svc.Summary(ctx, 1, "")
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)

		_, err := f.svc.Summary(ctx, 1, "NOPE")
		assert.ErrorIs(t, err, ErrCouponInvalid)
	})
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order and takes stock", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 2, 1)

		order := f.place(t, 1, "")

		assert.NotZero(t, order.ID)
		assert.Regexp(t, `^ORD-\d{8}-\d{6}-\d{4}$`, order.OrderNumber)
		assert.Equal(t, models.OrderPending, order.OrderStatus)
		assert.Equal(t, models.PaymentPending, order.PaymentStatus)
		assert.Equal(t, "799.00", order.Subtotal.StringFixed(2))
		assert.Equal(t, "0.00", order.ShippingAmount.StringFixed(2))
		assert.Equal(t, "143.82", order.TaxAmount.StringFixed(2))
		assert.Equal(t, "942.82", order.TotalAmount.StringFixed(2))
		require.Len(t, order.Items, 1)
		assert.Equal(t, "LAP-1", order.Items[0].ProductSKU)

		assert.Equal(t, "Lisbon", order.Shipping.City, "falls back to the profile")
		assert.Equal(t, "1 Main St", order.Shipping.Address)

		assert.Equal(t, 1, f.products.items[2].StockQuantity)
		count, err := f.cart.CartCount(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, 1, f.cache.calls, "listings are refreshed after stock changes")
	})

	t.Run("applies a coupon", func(t *testing.T) {
		f := newCheckoutFixture(welcomeCoupon())
		f.add(t, 1, 2, 1)

		order := f.place(t, 1, "welcome10")

		assert.Equal(t, "WELCOME10", order.CouponCode)
		assert.Equal(t, "79.90", order.DiscountAmount.StringFixed(2))
		assert.Equal(t, "862.92", order.TotalAmount.StringFixed(2))
		assert.Equal(t, 1, f.coupons.coupons["WELCOME10"].UsedCount)
	})

	t.Run("used up coupon", func(t *testing.T) {
		c := welcomeCoupon()
		c.UsageLimit, c.UsedCount = 1, 1
		f := newCheckoutFixture(c)
		f.add(t, 1, 2, 1)

		_, err := f.svc.PlaceOrder(ctx, 1, models.PlaceOrderRequest{Address: "x", CouponCode: "WELCOME10"})
		assert.ErrorIs(t, err, ErrCouponInvalid)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("requires an address", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)

		_, err := f.svc.PlaceOrder(ctx, 1, models.PlaceOrderRequest{Address: "  "})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.svc.PlaceOrder(ctx, 1, models.PlaceOrderRequest{Address: "x"})
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("stock sold out after adding to cart", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 2)
		f.products.items[1].StockQuantity = 1

		_, err := f.svc.PlaceOrder(ctx, 1, models.PlaceOrderRequest{Address: "x"})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 1, f.products.items[1].StockQuantity)

		count, err := f.cart.CartCount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "cart is kept")
		assert.Zero(t, f.cache.calls)
	})

	t.Run("product deactivated after adding to cart", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)
		f.products.items[1].IsActive = false

		_, err := f.svc.PlaceOrder(ctx, 1, models.PlaceOrderRequest{Address: "x"})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestCheckoutService_Pay(t *testing.T) {
	ctx := context.Background()

	pay := func(f *checkoutFixture, userID, orderID int, card string) (*models.Order, error) {
		return f.svc.Pay(ctx, userID, models.PaymentRequest{
			OrderID: orderID, CardHolder: "Ana Silva", CardNumber: card,
			ExpireMonth: "12", ExpireYear: "2030", CVC: "123",
		})
	}

	t.Run("test card confirms the order", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)
		order := f.place(t, 1, "")

		paid, err := pay(f, 1, order.ID, "4242 4242 4242 4242")
		require.NoError(t, err)
		assert.Equal(t, models.OrderConfirmed, paid.OrderStatus)
		assert.Equal(t, models.PaymentCompleted, paid.PaymentStatus)
		assert.Regexp(t, `^TEST_\d+$`, paid.PaymentID)
		assert.Len(t, f.notes.confirmed, 1)

		_, err = pay(f, 1, order.ID, testCard)
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("declined card can be retried", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)
		order := f.place(t, 1, "")

		_, err := pay(f, 1, order.ID, "4000000000000002")
		assert.ErrorIs(t, err, ErrPaymentDeclined)

		stored, err := f.svc.GetOrder(ctx, 1, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, stored.PaymentStatus)
		assert.Equal(t, models.OrderPending, stored.OrderStatus)
		assert.Empty(t, f.notes.confirmed)

		paid, err := pay(f, 1, order.ID, testCard)
		require.NoError(t, err)
		assert.True(t, paid.IsPaid())
	})

	t.Run("cannot pay someone else's order", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)
		order := f.place(t, 1, "")

		_, err := pay(f, 2, order.ID, testCard)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("cancelled order", func(t *testing.T) {
		f := newCheckoutFixture()
		f.add(t, 1, 1, 1)
		order := f.place(t, 1, "")
		f.orders.orders[order.ID].OrderStatus = models.OrderCancelled

		_, err := pay(f, 1, order.ID, testCard)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestCheckoutService_History(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.add(t, 1, 1, 1)
	f.place(t, 1, "")

	mine, err := f.svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.History(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
