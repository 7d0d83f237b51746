package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductController struct {
	catalog Catalog
	log     logrus.FieldLogger
}

func NewProductController(catalog Catalog, log logrus.FieldLogger) *ProductController {
	return &ProductController{catalog: catalog, log: log}
}

// List godoc
// @Summary List products
// @Description Active, in-stock products, newest first
// @Tags Storefront
// @Produce json
// @Param category_id query int false "Category id"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.HATEOASResponse
// @Router /product [get]
func (ctrl *ProductController) List(c *gin.Context) {
	page, limit, offset := getPaginationParams(c, defaultPageSize)
	categoryID, _ := strconv.Atoi(c.Query("category_id"))

	products, total, err := ctrl.catalog.ListProducts(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load products", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, "Products retrieved successfully", products, page, limit, total))
}

// Search godoc
// @Summary Search products
// @Description Case-insensitive match on product name or description
// @Tags Storefront
// @Produce json
// @Param q query string false "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.HATEOASResponse
// @Router /product/search [get]
func (ctrl *ProductController) Search(c *gin.Context) {
	page, limit, offset := getPaginationParams(c, defaultPageSize)
	term := strings.TrimSpace(c.Query("q"))

	products, total, err := ctrl.catalog.Search(c.Request.Context(), term, limit, offset)
	if err != nil {
		respondError(c, ctrl.log, "Failed to search products", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, "Search results", products, page, limit, total))
}

// Details godoc
// @Summary Product details
// @Description Product with images, approved reviews and related products
// @Tags Storefront
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ProductDetails}
// @Failure 404 {object} models.ErrorResponse
// @Router /product/details/{id} [get]
func (ctrl *ProductController) Details(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	details, err := ctrl.catalog.ProductDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load product", err)
		return
	}

	ok(c, http.StatusOK, "Product retrieved successfully", details)
}

// AddReview godoc
// @Summary Review a product
// @Description Reviews are published after admin approval
// @Tags Storefront
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.ReviewRequest true "Review"
// @Success 201 {object} models.Response{data=models.ProductReview}
// @Failure 400 {object} models.ErrorResponse
// @Router /product/review/{id} [post]
func (ctrl *ProductController) AddReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	review, err := ctrl.catalog.AddReview(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to save review", err)
		return
	}

	ok(c, http.StatusCreated, "Review submitted and awaiting approval", review)
}
