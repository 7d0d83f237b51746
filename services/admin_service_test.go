package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageStore struct {
	saved   []string
	deleted []string
}

func (s *fakeImageStore) Save(_ context.Context, fh *multipart.FileHeader, folder string) (libs.StoredImage, error) {
	id := folder + "/" + fh.Filename
	s.saved = append(s.saved, id)
	return libs.StoredImage{URL: "https://cdn.example.com/" + id, PublicID: id}, nil
}

func (s *fakeImageStore) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

type adminFixture struct {
	svc        *AdminService
	products   *fakeProducts
	categories *fakeCategories
	orders     *fakeOrders
	reviews    *fakeReviews
	coupons    *fakeCoupons
	images     *fakeImageStore
	cache      *recordingInvalidator
	notes      *recordedNotifications
}

func newAdminFixture() *adminFixture {
	products := newFakeProducts(catalogFixture()...)
	categories := newFakeCategories(categoryFixture()...)
	carts := newFakeCarts(products)
	coupons := newFakeCoupons()
	f := &adminFixture{
		products:   products,
		categories: categories,
		orders:     newFakeOrders(products, carts, coupons),
		reviews:    newFakeReviews(),
		coupons:    coupons,
		images:     &fakeImageStore{},
		cache:      &recordingInvalidator{},
		notes:      &recordedNotifications{},
	}
	f.svc = NewAdminService(AdminDeps{
		Products:      products,
		Categories:    categories,
		Orders:        f.orders,
		Users:         newFakeUsers(models.User{ID: 1, Email: "ana@example.com"}),
		Reviews:       f.reviews,
		Coupons:       coupons,
		Images:        f.images,
		Catalog:       f.cache,
		Notifier:      f.notes,
		MaxUploadSize: 1 << 20,
		Log:           quietLogger(),
	})
	return f
}

func validProductRequest() models.ProductRequest {
	return models.ProductRequest{
		Name:          "Tablet",
		Description:   "10 inch tablet",
		SKU:           "tab-1",
		Price:         money("349.50"),
		StockQuantity: 4,
		ImageURL:      "https://cdn.example.com/tablet.jpg",
		CategoryID:    1,
	}
}

func TestAdminService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.orders.orders[1] = &models.Order{ID: 1, OrderStatus: models.OrderPending, OrderDate: time.Now()}
	f.orders.orders[2] = &models.Order{ID: 2, OrderStatus: models.OrderShipped, OrderDate: time.Now().AddDate(0, 0, -3)}

	stats, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 4, stats.TotalCategories)
	assert.Equal(t, 1, stats.TodayOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.LowStock)
	assert.Len(t, stats.RecentOrders, 2)
}

func TestAdminService_SaveProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		f := newAdminFixture()
		discounted := money("299.00")
		req := validProductRequest()
		req.DiscountedPrice = &discounted

		product, err := f.svc.SaveProduct(ctx, 0, req)
		require.NoError(t, err)
		assert.NotZero(t, product.ID)
		assert.Equal(t, "TAB-1", product.SKU)
		assert.True(t, product.IsActive)
		assert.Equal(t, models.DefaultMinStockQuantity, product.MinStockQuantity)
		assert.Equal(t, "299.00", product.EffectivePrice().StringFixed(2))
		assert.Equal(t, 1, f.cache.calls)
	})

	t.Run("update keeps unspecified flags", func(t *testing.T) {
		f := newAdminFixture()
		req := validProductRequest()
		req.SKU = "PHN-1"
		req.CategoryID = 2

		product, err := f.svc.SaveProduct(ctx, 1, req)
		require.NoError(t, err)
		assert.Equal(t, 1, product.ID)
		assert.Equal(t, "Tablet", f.products.items[1].Name)
		assert.Equal(t, 2, f.products.items[1].MinStockQuantity)
		assert.False(t, product.DiscountedPrice.Valid)
	})

	t.Run("validation", func(t *testing.T) {
		f := newAdminFixture()
		req := validProductRequest()
		req.Price = decimal.Zero
		req.StockQuantity = -1

		_, err := f.svc.SaveProduct(ctx, 0, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "price must be greater than zero")
		assert.Contains(t, err.Error(), "stock cannot be negative")
		assert.Zero(t, f.cache.calls)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newAdminFixture()
		req := validProductRequest()
		req.CategoryID = 99

		_, err := f.svc.SaveProduct(ctx, 0, req)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		f := newAdminFixture()
		req := validProductRequest()
		req.SKU = "phn-1"

		_, err := f.svc.SaveProduct(ctx, 0, req)
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestAdminService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.products.images[2] = []models.ProductImage{{ID: 1, ProductID: 2, PublicID: "products/a"}}
	f.products.inUse[1] = true

	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, 1), ErrInUse)
	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, 404), ErrProductNotFound)

	require.NoError(t, f.svc.DeleteProduct(ctx, 2))
	assert.Equal(t, []string{"products/a"}, f.images.deleted)
	assert.NotContains(t, f.products.items, 2)
}

func TestAdminService_AddProductImage(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.products.items[1].ImageURL = ""

	img, err := f.svc.AddProductImage(ctx, 1, &multipart.FileHeader{Filename: "front.png", Size: 512}, "front")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/front.png", img.ImageURL)
	assert.Equal(t, img.ImageURL, f.products.items[1].ImageURL)

	_, err = f.svc.AddProductImage(ctx, 1, &multipart.FileHeader{Filename: "notes.txt", Size: 10}, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.AddProductImage(ctx, 1, &multipart.FileHeader{Filename: "huge.jpg", Size: 2 << 20}, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.AddProductImage(ctx, 404, &multipart.FileHeader{Filename: "a.jpg", Size: 1}, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Len(t, f.images.saved, 1)
}

func TestAdminService_SaveCategory(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	_, err := f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "A"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SaveCategory(ctx, 2, models.CategoryRequest{Name: "Phones", ParentID: intPtr(2)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "Tablets", ParentID: intPtr(99)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	created, err := f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "Tablets", ParentID: intPtr(1)})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 1, *created.ParentID)

	inactive := false
	updated, err := f.svc.SaveCategory(ctx, created.ID, models.CategoryRequest{Name: "Tablets & E-readers", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.ParentID)

	require.NoError(t, f.svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, created.ID), ErrCategoryNotFound)
}

func TestAdminService_SaveCategoryRejectsParentCycle(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	alpha, err := f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "Alpha"})
	require.NoError(t, err)
	beta, err := f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "Beta", ParentID: intPtr(alpha.ID)})
	require.NoError(t, err)
	gamma, err := f.svc.SaveCategory(ctx, 0, models.CategoryRequest{Name: "Gamma", ParentID: intPtr(beta.ID)})
	require.NoError(t, err)

	_, err = f.svc.SaveCategory(ctx, alpha.ID, models.CategoryRequest{Name: "Alpha", ParentID: intPtr(beta.ID)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SaveCategory(ctx, alpha.ID, models.CategoryRequest{Name: "Alpha", ParentID: intPtr(gamma.ID)})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.categories.GetByID(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)

	moved, err := f.svc.SaveCategory(ctx, gamma.ID, models.CategoryRequest{Name: "Gamma", ParentID: intPtr(alpha.ID)})
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, *moved.ParentID)
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.orders.orders[1] = &models.Order{ID: 1, OrderNumber: "ORD-1", OrderStatus: models.OrderConfirmed, PaymentStatus: models.PaymentCompleted}

	order, err := f.svc.UpdateOrderStatus(ctx, 1, models.UpdateOrderStatusRequest{Status: "Shipped", TrackingNumber: "TRK123"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.OrderStatus)
	assert.Equal(t, "TRK123", order.TrackingNumber)
	require.NotNil(t, order.ShippingDate)
	assert.Nil(t, order.DeliveryDate)
	require.Len(t, f.notes.changed, 1)
	assert.Equal(t, models.OrderShipped, f.notes.changed[0].OrderStatus)

	order, err = f.svc.UpdateOrderStatus(ctx, 1, models.UpdateOrderStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.NotNil(t, order.DeliveryDate)
	assert.Equal(t, "TRK123", order.TrackingNumber)

	_, err = f.svc.UpdateOrderStatus(ctx, 1, models.UpdateOrderStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateOrderStatus(ctx, 404, models.UpdateOrderStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminService_Reviews(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	require.NoError(t, f.reviews.Create(ctx, &models.ProductReview{ProductID: 1, UserID: 1, Rating: 4}))

	pending, err := f.svc.PendingReviews(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, f.svc.ApproveReview(ctx, pending[0].ID))
	pending, err = f.svc.PendingReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, f.svc.DeleteReview(ctx, 99), ErrReviewNotFound)
}

func TestAdminService_Coupons(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	end := time.Now().Add(24 * time.Hour)

	_, err := f.svc.CreateCoupon(ctx, models.CouponRequest{Code: "ZERO", Type: models.CouponFixed, EndDate: end})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateCoupon(ctx, models.CouponRequest{Code: "BIG", Type: models.CouponPercentage, Value: decimal.NewFromInt(150), EndDate: end})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateCoupon(ctx, models.CouponRequest{Code: "PAST", Type: models.CouponFixed, Value: decimal.NewFromInt(5), EndDate: time.Now().Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)

	coupon, err := f.svc.CreateCoupon(ctx, models.CouponRequest{Code: "spring", Type: models.CouponPercentage, Value: decimal.NewFromInt(15), EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, "SPRING", coupon.Code)
	assert.True(t, coupon.IsActive)

	_, err = f.svc.CreateCoupon(ctx, models.CouponRequest{Code: "SPRING", Type: models.CouponFixed, Value: decimal.NewFromInt(5), EndDate: end})
	assert.True(t, errors.Is(err, ErrDuplicate))

	require.NoError(t, f.svc.DeactivateCoupon(ctx, coupon.ID))
	assert.False(t, f.coupons.coupons["SPRING"].IsActive)
	assert.ErrorIs(t, f.svc.DeactivateCoupon(ctx, 404), ErrCouponInvalid)
}
