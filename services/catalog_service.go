package services

import (
	"context"
	"fmt"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/sirupsen/logrus"
)

const (
	catalogCachePrefix = "catalog:"
	homeCacheKey       = catalogCachePrefix + "home"
	categoriesCacheKey = catalogCachePrefix + "categories"

	homeFeaturedLimit   = 8
	homeNewLimit        = 8
	homeCategoryLimit   = 6
	relatedProductLimit = 4
)

type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	reviews    ReviewStore
	cache      libs.Cache
	ttl        time.Duration
	log        logrus.FieldLogger
}

func NewCatalogService(products ProductStore, categories CategoryStore, reviews ReviewStore, cache libs.Cache, ttl time.Duration, log logrus.FieldLogger) *CatalogService {
	if cache == nil {
		cache = libs.NewMemoryCache()
	}
	return &CatalogService{
		products:   products,
		categories: categories,
		reviews:    reviews,
		cache:      cache,
		ttl:        ttl,
		log:        log,
	}
}

// Home never fails: a section that cannot be loaded is returned empty.
func (s *CatalogService) Home(ctx context.Context) models.HomePage {
	var page models.HomePage
	if s.cache.Get(ctx, homeCacheKey, &page) {
		return page
	}

	page = models.HomePage{
		FeaturedProducts: []models.Product{},
		NewProducts:      []models.Product{},
		Categories:       []models.Category{},
	}
	complete := true

	featured, _, err := s.products.ListActive(ctx, models.ProductFilter{FeaturedOnly: true, Limit: homeFeaturedLimit})
	if err != nil {
		s.log.WithError(err).Error("Failed to load featured products")
		complete = false
	} else {
		page.FeaturedProducts = featured
	}

	newest, _, err := s.products.ListActive(ctx, models.ProductFilter{Limit: homeNewLimit})
	if err != nil {
		s.log.WithError(err).Error("Failed to load new products")
		complete = false
	} else {
		page.NewProducts = newest
	}

	roots, err := s.Categories(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to load categories")
		complete = false
	} else {
		if len(roots) > homeCategoryLimit {
			roots = roots[:homeCategoryLimit]
		}
		page.Categories = roots
	}

	if complete {
		s.store(ctx, homeCacheKey, page)
	}
	return page
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID, limit, offset int) ([]models.Product, int, error) {
	return s.products.ListActive(ctx, models.ProductFilter{CategoryID: categoryID, Limit: limit, Offset: offset})
}

// Search matches name or description. An empty term lists everything.
func (s *CatalogService) Search(ctx context.Context, term string, limit, offset int) ([]models.Product, int, error) {
	return s.products.ListActive(ctx, models.ProductFilter{Search: term, Limit: limit, Offset: offset})
}

func (s *CatalogService) ProductDetails(ctx context.Context, id int) (*models.ProductDetails, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, ErrProductNotFound)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	if product.Images, err = s.products.Images(ctx, id); err != nil {
		return nil, err
	}

	related, err := s.products.Related(ctx, product.CategoryID, product.ID, relatedProductLimit)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListApproved(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ProductDetails{
		Product:         *product,
		RelatedProducts: related,
		Reviews:         reviews,
	}, nil
}

// Categories returns the active root categories with their active subcategories.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var tree []models.Category
	if s.cache.Get(ctx, categoriesCacheKey, &tree) {
		return tree, nil
	}

	all, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	tree = models.BuildCategoryTree(all)
	s.store(ctx, categoriesCacheKey, tree)
	return tree, nil
}

func (s *CatalogService) CategoryDetails(ctx context.Context, id int) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, ErrCategoryNotFound)
	}
	if !category.IsActive {
		return nil, ErrCategoryNotFound
	}

	if category.SubCategories, err = s.categories.Children(ctx, id); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) CategoryProducts(ctx context.Context, id, limit, offset int) (*models.Category, []models.Product, int, error) {
	category, err := s.CategoryDetails(ctx, id)
	if err != nil {
		return nil, nil, 0, err
	}

	products, total, err := s.products.ListActive(ctx, models.ProductFilter{CategoryID: id, Limit: limit, Offset: offset})
	if err != nil {
		return nil, nil, 0, err
	}
	return category, products, total, nil
}

// AddReview stores the review unapproved; it shows up after moderation.
func (s *CatalogService) AddReview(ctx context.Context, userID, productID int, req models.ReviewRequest) (*models.ProductReview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len([]rune(req.Comment)) > 1000 {
		return nil, fmt.Errorf("%w: comment is limited to 1000 characters", ErrValidation)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, mapStoreErr(err, ErrProductNotFound)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// InvalidateCache drops every cached catalog page. Called after back office writes.
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, catalogCachePrefix); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

func (s *CatalogService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to cache catalog data")
	}
}
