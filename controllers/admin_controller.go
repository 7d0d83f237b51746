package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminConsole interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)

	ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	SaveProduct(ctx context.Context, id int, req models.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	AddProductImage(ctx context.Context, productID int, file *multipart.FileHeader, altText string) (*models.ProductImage, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, id int, req models.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, req models.UpdateOrderStatusRequest) (*models.Order, error)

	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)

	PendingReviews(ctx context.Context) ([]models.ProductReview, error)
	ApproveReview(ctx context.Context, id int) error
	DeleteReview(ctx context.Context, id int) error

	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error)
	DeactivateCoupon(ctx context.Context, id int) error
}

type AdminController struct {
	admin AdminConsole
	log   logrus.FieldLogger
}

func NewAdminController(admin AdminConsole, log logrus.FieldLogger) *AdminController {
	return &AdminController{admin: admin, log: log}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Store counters and the most recent orders
// @Tags Admin - Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.DashboardStats}
// @Router /admin/dashboard [get]
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	stats, err := ctrl.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Failed to load dashboard", err)
		return
	}

	ok(c, http.StatusOK, "Dashboard retrieved successfully", stats)
}

// ListProducts godoc
// @Summary Get all products
// @Description Get all products with pagination (Admin)
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/products [get]
func (ctrl *AdminController) ListProducts(c *gin.Context) {
	page, limit, offset := getPaginationParams(c, 10)

	products, total, err := ctrl.admin.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load products", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, "Products retrieved successfully", products, page, limit, total))
}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [get]
func (ctrl *AdminController) GetProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	product, err := ctrl.admin.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load product", err)
		return
	}

	ok(c, http.StatusOK, "Product retrieved successfully", product)
}

// CreateProduct godoc
// @Summary Create product
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/products [post]
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := ctrl.admin.SaveProduct(c.Request.Context(), 0, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to create product", err)
		return
	}

	ok(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct godoc
// @Summary Update product
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.ProductRequest true "Product"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [put]
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := ctrl.admin.SaveProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to update product", err)
		return
	}

	ok(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct godoc
// @Summary Delete product
// @Description Products that appear on orders cannot be deleted
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/products/{id} [delete]
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.admin.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Failed to delete product", err)
		return
	}

	ok(c, http.StatusOK, "Product deleted successfully", nil)
}

// UploadProductImage godoc
// @Summary Upload product image
// @Tags Admin - Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param image formData file true "Image file"
// @Param alt_text formData string false "Alt text"
// @Success 201 {object} models.Response{data=models.ProductImage}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/products/{id}/images [post]
func (ctrl *AdminController) UploadProductImage(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required", err)
		return
	}

	img, err := ctrl.admin.AddProductImage(c.Request.Context(), id, file, c.PostForm("alt_text"))
	if err != nil {
		respondError(c, ctrl.log, "Failed to upload image", err)
		return
	}

	ok(c, http.StatusCreated, "Image uploaded successfully", img)
}

// ListCategories godoc
// @Summary Get all categories
// @Tags Admin - Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Router /admin/categories [get]
func (ctrl *AdminController) ListCategories(c *gin.Context) {
	categories, err := ctrl.admin.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Failed to load categories", err)
		return
	}

	ok(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// CreateCategory godoc
// @Summary Create category
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CategoryRequest true "Category"
// @Success 201 {object} models.Response{data=models.Category}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/categories [post]
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	category, err := ctrl.admin.SaveCategory(c.Request.Context(), 0, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to create category", err)
		return
	}

	ok(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags Admin - Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body models.CategoryRequest true "Category"
// @Success 200 {object} models.Response{data=models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/categories/{id} [put]
func (ctrl *AdminController) UpdateCategory(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	category, err := ctrl.admin.SaveCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to update category", err)
		return
	}

	ok(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags Admin - Categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Response
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Failed to delete category", err)
		return
	}

	ok(c, http.StatusOK, "Category deleted successfully", nil)
}

// ListOrders godoc
// @Summary Get all orders
// @Description Get all orders with pagination (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Param search query string false "Search by order number or customer email"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/orders [get]
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	page, limit, offset := getPaginationParams(c, 10)

	filter := models.OrderFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  limit,
		Offset: offset,
	}
	if status := c.Query("status"); status != "" && !strings.EqualFold(status, "all") {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			badRequest(c, "Invalid status filter", err)
			return
		}
		filter.Status = parsed
	}

	orders, total, err := ctrl.admin.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load orders", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, "Orders retrieved successfully", orders, page, limit, total))
}

// GetOrder godoc
// @Summary Get order by ID
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [get]
func (ctrl *AdminController) GetOrder(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	order, err := ctrl.admin.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load order", err)
		return
	}

	ok(c, http.StatusOK, "Order retrieved successfully", order)
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Tags Admin - Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body models.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.admin.UpdateOrderStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to update order status", err)
		return
	}

	ok(c, http.StatusOK, "Order status updated", order)
}

// ListUsers godoc
// @Summary Get all users
// @Tags Admin - Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, limit, offset := getPaginationParams(c, 10)

	users, total, err := ctrl.admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load users", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, "Users retrieved successfully", users, page, limit, total))
}

// PendingReviews godoc
// @Summary Reviews awaiting approval
// @Tags Admin - Reviews
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.ProductReview}
// @Router /admin/reviews [get]
func (ctrl *AdminController) PendingReviews(c *gin.Context) {
	reviews, err := ctrl.admin.PendingReviews(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Failed to load reviews", err)
		return
	}

	ok(c, http.StatusOK, "Pending reviews retrieved", reviews)
}

// ApproveReview godoc
// @Summary Approve review
// @Tags Admin - Reviews
// @Security BearerAuth
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.Response
// @Router /admin/reviews/{id}/approve [post]
func (ctrl *AdminController) ApproveReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.admin.ApproveReview(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Failed to approve review", err)
		return
	}

	ok(c, http.StatusOK, "Review approved", nil)
}

// DeleteReview godoc
// @Summary Delete review
// @Tags Admin - Reviews
// @Security BearerAuth
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.Response
// @Router /admin/reviews/{id} [delete]
func (ctrl *AdminController) DeleteReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.admin.DeleteReview(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Failed to delete review", err)
		return
	}

	ok(c, http.StatusOK, "Review deleted", nil)
}

// ListCoupons godoc
// @Summary Get all coupons
// @Tags Admin - Coupons
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Coupon}
// @Router /admin/coupons [get]
func (ctrl *AdminController) ListCoupons(c *gin.Context) {
	coupons, err := ctrl.admin.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Failed to load coupons", err)
		return
	}

	ok(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

// CreateCoupon godoc
// @Summary Create coupon
// @Tags Admin - Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CouponRequest true "Coupon"
// @Success 201 {object} models.Response{data=models.Coupon}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/coupons [post]
func (ctrl *AdminController) CreateCoupon(c *gin.Context) {
	var req models.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	coupon, err := ctrl.admin.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to create coupon", err)
		return
	}

	ok(c, http.StatusCreated, "Coupon created successfully", coupon)
}

// DeactivateCoupon godoc
// @Summary Deactivate coupon
// @Tags Admin - Coupons
// @Security BearerAuth
// @Produce json
// @Param id path int true "Coupon ID"
// @Success 200 {object} models.Response
// @Router /admin/coupons/{id} [delete]
func (ctrl *AdminController) DeactivateCoupon(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.admin.DeactivateCoupon(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Failed to deactivate coupon", err)
		return
	}

	ok(c, http.StatusOK, "Coupon deactivated", nil)
}
