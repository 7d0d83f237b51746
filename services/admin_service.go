package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

// CatalogCache is implemented by CatalogService.
type CatalogCache interface {
	InvalidateCache(ctx context.Context)
}

type AdminService struct {
	products      ProductStore
	categories    CategoryStore
	orders        OrderStore
	users         UserStore
	reviews       ReviewStore
	coupons       CouponStore
	images        libs.ImageStore
	catalog       CatalogCache
	notifier      OrderNotifications
	maxUploadSize int64
	log           logrus.FieldLogger
	now           func() time.Time
}

type AdminDeps struct {
	Products      ProductStore
	Categories    CategoryStore
	Orders        OrderStore
	Users         UserStore
	Reviews       ReviewStore
	Coupons       CouponStore
	Images        libs.ImageStore
	Catalog       CatalogCache
	Notifier      OrderNotifications
	MaxUploadSize int64
	Log           logrus.FieldLogger
}

func NewAdminService(d AdminDeps) *AdminService {
	return &AdminService{
		products:      d.Products,
		categories:    d.Categories,
		orders:        d.Orders,
		users:         d.Users,
		reviews:       d.Reviews,
		coupons:       d.Coupons,
		images:        d.Images,
		catalog:       d.Catalog,
		notifier:      d.Notifier,
		maxUploadSize: d.MaxUploadSize,
		log:           d.Log,
		now:           time.Now,
	}
}

// Dashboard runs the count queries concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() (err error) { stats.TotalProducts, err = s.products.Count(ctx); return })
	g.Go(func() (err error) { stats.TotalOrders, err = s.orders.Count(ctx); return })
	g.Go(func() (err error) { stats.TotalUsers, err = s.users.Count(ctx); return })
	g.Go(func() (err error) { stats.TotalCategories, err = s.categories.Count(ctx); return })
	g.Go(func() (err error) { stats.TodayOrders, err = s.orders.CountSince(ctx, startOfDay); return })
	g.Go(func() (err error) { stats.PendingOrders, err = s.orders.CountByStatus(ctx, models.OrderPending); return })
	g.Go(func() (err error) { stats.LowStock, err = s.products.CountLowStock(ctx); return })
	g.Go(func() (err error) { stats.RecentOrders, err = s.orders.Recent(ctx, recentOrdersLimit); return })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return stats, nil
}

func (s *AdminService) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	return s.products.ListAll(ctx, limit, offset)
}

func (s *AdminService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, ErrProductNotFound)
	}
	if product.Images, err = s.products.Images(ctx, id); err != nil {
		return nil, err
	}
	return product, nil
}

func validateProduct(req models.ProductRequest) error {
	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(req.SKU) == "" {
		problems = append(problems, "sku is required")
	}
	if !req.Price.IsPositive() {
		problems = append(problems, "price must be greater than zero")
	}
	if req.DiscountedPrice != nil && req.DiscountedPrice.IsNegative() {
		problems = append(problems, "discounted price cannot be negative")
	}
	if req.StockQuantity < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if req.MinStockQuantity != nil && *req.MinStockQuantity < 0 {
		problems = append(problems, "minimum stock cannot be negative")
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		problems = append(problems, "image url is required")
	}
	if req.CategoryID <= 0 {
		problems = append(problems, "category is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// SaveProduct creates the product when id is zero and updates it otherwise.
func (s *AdminService) SaveProduct(ctx context.Context, id int, req models.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		return nil, mapStoreErr(err, ErrCategoryNotFound)
	}

	product := &models.Product{MinStockQuantity: models.DefaultMinStockQuantity, IsActive: true}
	if id > 0 {
		existing, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, mapStoreErr(err, ErrProductNotFound)
		}
		product = existing
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = strings.TrimSpace(req.Description)
	product.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	product.Price = req.Price.Round(2)
	product.DiscountedPrice = decimal.NullDecimal{}
	if req.DiscountedPrice != nil && req.DiscountedPrice.IsPositive() {
		product.DiscountedPrice = decimal.NewNullDecimal(req.DiscountedPrice.Round(2))
	}
	product.StockQuantity = req.StockQuantity
	if req.MinStockQuantity != nil {
		product.MinStockQuantity = *req.MinStockQuantity
	}
	product.ImageURL = strings.TrimSpace(req.ImageURL)
	product.CategoryID = req.CategoryID
	product.IsFeatured = req.IsFeatured
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	var err error
	if id > 0 {
		err = s.products.Update(ctx, product)
	} else {
		err = s.products.Create(ctx, product)
	}
	if err != nil {
		return nil, mapStoreErr(err, ErrProductNotFound)
	}

	s.catalog.InvalidateCache(ctx)
	s.log.WithFields(logrus.Fields{"product_id": product.ID, "sku": product.SKU}).Info("Product saved")
	return product, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int) error {
	images, err := s.products.Images(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return mapStoreErr(err, ErrProductNotFound)
	}

	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := s.images.Delete(ctx, img.PublicID); err != nil {
			s.log.WithError(err).WithField("public_id", img.PublicID).Warn("Failed to delete product image")
		}
	}

	s.catalog.InvalidateCache(ctx)
	return nil
}

// AddProductImage uploads an image for the product. The first image also
// becomes the listing image when the product has none.
func (s *AdminService) AddProductImage(ctx context.Context, productID int, file *multipart.FileHeader, altText string) (*models.ProductImage, error) {
	if err := utils.ValidateImageFile(file, s.maxUploadSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, mapStoreErr(err, ErrProductNotFound)
	}

	stored, err := s.images.Save(ctx, file, "products")
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	img := &models.ProductImage{
		ProductID: productID,
		ImageURL:  stored.URL,
		PublicID:  stored.PublicID,
		AltText:   altText,
	}
	if err := s.products.AddImage(ctx, img); err != nil {
		if delErr := s.images.Delete(ctx, stored.PublicID); delErr != nil {
			s.log.WithError(delErr).Warn("Failed to clean up orphaned image")
		}
		return nil, mapStoreErr(err, ErrProductNotFound)
	}

	if err := s.products.SetMainImageIfEmpty(ctx, productID, stored.URL); err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("Failed to set main image")
	}

	s.catalog.InvalidateCache(ctx)
	return img, nil
}

func (s *AdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListAll(ctx)
}

func (s *AdminService) SaveCategory(ctx context.Context, id int, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		return nil, fmt.Errorf("%w: name must have at least 2 characters", ErrValidation)
	}

	if req.ParentID != nil {
		if err := s.checkParent(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{IsActive: true}
	if id > 0 {
		existing, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return nil, mapStoreErr(err, ErrCategoryNotFound)
		}
		category = existing
	}

	category.Name = name
	category.Description = req.Description
	category.ImageURL = req.ImageURL
	category.ParentID = req.ParentID
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	var err error
	if id > 0 {
		err = s.categories.Update(ctx, category)
	} else {
		err = s.categories.Create(ctx, category)
	}
	if err != nil {
		return nil, mapStoreErr(err, ErrCategoryNotFound)
	}

	s.catalog.InvalidateCache(ctx)
	return category, nil
}

// checkParent walks up from parentID and rejects the move when the chain
// reaches id, which would detach both categories from the tree.
func (s *AdminService) checkParent(ctx context.Context, id, parentID int) error {
	seen := map[int]bool{}
	for next := &parentID; next != nil; {
		current := *next
		if id > 0 && current == id {
			return fmt.Errorf("%w: a category cannot be moved under itself or its descendants", ErrValidation)
		}
		if seen[current] {
			return fmt.Errorf("%w: category %d is part of a parent cycle", ErrValidation, current)
		}
		seen[current] = true

		parent, err := s.categories.GetByID(ctx, current)
		if err != nil {
			return mapStoreErr(err, ErrCategoryNotFound)
		}
		next = parent.ParentID
	}
	return nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return mapStoreErr(err, ErrCategoryNotFound)
	}
	s.catalog.InvalidateCache(ctx)
	return nil
}

func (s *AdminService) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	return s.orders.List(ctx, f)
}

func (s *AdminService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, ErrOrderNotFound)
	}
	return order, nil
}

// UpdateOrderStatus allows moving between any two statuses. Entering shipped
// or delivered stamps the matching date.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id int, req models.UpdateOrderStatusRequest) (*models.Order, error) {
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previous := order.OrderStatus
	order.OrderStatus = status
	if tn := strings.TrimSpace(req.TrackingNumber); tn != "" {
		order.TrackingNumber = tn
	}
	switch status {
	case models.OrderShipped:
		order.ShippingDate = &now
	case models.OrderDelivered:
		order.DeliveryDate = &now
		if order.ShippingDate == nil {
			order.ShippingDate = &now
		}
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, mapStoreErr(err, ErrOrderNotFound)
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": status}).Info("Order status updated")
	s.notifier.OrderStatusChanged(*order)
	return order, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AdminService) PendingReviews(ctx context.Context) ([]models.ProductReview, error) {
	return s.reviews.ListPending(ctx)
}

func (s *AdminService) ApproveReview(ctx context.Context, id int) error {
	return mapStoreErr(s.reviews.Approve(ctx, id), ErrReviewNotFound)
}

func (s *AdminService) DeleteReview(ctx context.Context, id int) error {
	return mapStoreErr(s.reviews.Delete(ctx, id), ErrReviewNotFound)
}

func (s *AdminService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *AdminService) CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error) {
	if !req.Value.IsPositive() {
		return nil, fmt.Errorf("%w: value must be greater than zero", ErrValidation)
	}
	if req.Type == models.CouponPercentage && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: percentage cannot exceed 100", ErrValidation)
	}
	if req.MinimumOrderAmount.IsNegative() {
		return nil, fmt.Errorf("%w: minimum order amount cannot be negative", ErrValidation)
	}

	start := s.now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate.IsZero() || !req.EndDate.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	coupon := &models.Coupon{
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:        req.Description,
		Type:               req.Type,
		Value:              req.Value,
		MinimumOrderAmount: req.MinimumOrderAmount,
		UsageLimit:         req.UsageLimit,
		StartDate:          start,
		EndDate:            req.EndDate,
		IsActive:           true,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, mapStoreErr(err, ErrCouponInvalid)
	}
	return coupon, nil
}

func (s *AdminService) DeactivateCoupon(ctx context.Context, id int) error {
	return mapStoreErr(s.coupons.Deactivate(ctx, id), ErrCouponInvalid)
}
