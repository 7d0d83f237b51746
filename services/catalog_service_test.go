package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func categoryFixture() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Electronics", IsActive: true},
		{ID: 2, Name: "Smartphones", ParentID: intPtr(1), IsActive: true},
		{ID: 3, Name: "Laptops", ParentID: intPtr(1), IsActive: true},
		{ID: 4, Name: "Archive", IsActive: false},
	}
}

func newCatalogFixture() (*CatalogService, *fakeProducts, *fakeCategories, *fakeReviews) {
	products := newFakeProducts(catalogFixture()...)
	categories := newFakeCategories(categoryFixture()...)
	reviews := newFakeReviews()
	svc := NewCatalogService(products, categories, reviews, libs.NewMemoryCache(), time.Minute, quietLogger())
	return svc, products, categories, reviews
}

func TestCatalogService_HomeIsCached(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newCatalogFixture()

	page := svc.Home(ctx)
	require.Len(t, page.FeaturedProducts, 1)
	assert.Equal(t, "Phone", page.FeaturedProducts[0].Name)
	assert.Len(t, page.NewProducts, 2)
	require.Len(t, page.Categories, 1)
	assert.Len(t, page.Categories[0].SubCategories, 2)

	hits := products.listHits
	again := svc.Home(ctx)
	assert.Equal(t, hits, products.listHits)
	assert.Equal(t, "199.99", again.FeaturedProducts[0].Price.StringFixed(2))

	svc.InvalidateCache(ctx)
	svc.Home(ctx)
	assert.Greater(t, products.listHits, hits)
}

func TestCatalogService_HomeDegradesOnError(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newCatalogFixture()
	products.listErr = errors.New("connection refused")

	page := svc.Home(ctx)
	assert.NotNil(t, page.FeaturedProducts)
	assert.Empty(t, page.FeaturedProducts)
	assert.Empty(t, page.NewProducts)
	assert.Len(t, page.Categories, 1)

	products.listErr = nil
	page = svc.Home(ctx)
	assert.Len(t, page.NewProducts, 2, "a partial page is not cached")
}

func TestCatalogService_ProductDetails(t *testing.T) {
	ctx := context.Background()
	svc, products, _, reviews := newCatalogFixture()
	products.items[4] = &models.Product{ID: 4, Name: "Phone Mini", Price: money("99.00"), StockQuantity: 3, IsActive: true, CategoryID: 2}

	details, err := svc.ProductDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Phone", details.Product.Name)
	require.Len(t, details.RelatedProducts, 1)
	assert.Equal(t, 4, details.RelatedProducts[0].ID)
	assert.Empty(t, details.Reviews)

	review, err := svc.AddReview(ctx, 7, 1, models.ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	details, err = svc.ProductDetails(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, details.Reviews, "reviews wait for moderation")

	require.NoError(t, reviews.Approve(ctx, review.ID))
	details, err = svc.ProductDetails(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, details.Reviews, 1)

	_, err = svc.ProductDetails(ctx, 3)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = svc.ProductDetails(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_AddReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	_, err := svc.AddReview(ctx, 1, 1, models.ReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddReview(ctx, 1, 1, models.ReviewRequest{Rating: 3, Comment: strings.Repeat("a", 1001)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddReview(ctx, 1, 3, models.ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_Categories(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	category, products, total, err := svc.CategoryProducts(ctx, 2, 12, 0)
	require.NoError(t, err)
	assert.Equal(t, "Smartphones", category.Name)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)

	parent, err := svc.CategoryDetails(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, parent.SubCategories, 2)

	_, err = svc.CategoryDetails(ctx, 4)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	found, total, err := svc.Search(ctx, "lap", 12, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Laptop", found[0].Name)

	all, _, err := svc.Search(ctx, "", 12, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
