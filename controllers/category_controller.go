package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryController struct {
	catalog Catalog
	log     logrus.FieldLogger
}

func NewCategoryController(catalog Catalog, log logrus.FieldLogger) *CategoryController {
	return &CategoryController{catalog: catalog, log: log}
}

// List godoc
// @Summary List categories
// @Description Active root categories with their subcategories
// @Tags Storefront
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Router /category [get]
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Failed to load categories", err)
		return
	}

	ok(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// Details godoc
// @Summary Category details
// @Tags Storefront
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Response{data=models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /category/details/{id} [get]
func (ctrl *CategoryController) Details(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	category, err := ctrl.catalog.CategoryDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load category", err)
		return
	}

	ok(c, http.StatusOK, "Category retrieved successfully", category)
}

// Products godoc
// @Summary Products in a category
// @Tags Storefront
// @Produce json
// @Param id path int true "Category ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.HATEOASResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /category/products/{id} [get]
func (ctrl *CategoryController) Products(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	page, limit, offset := getPaginationParams(c, defaultPageSize)

	category, products, total, err := ctrl.catalog.CategoryProducts(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load category products", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(c, category.Name, products, page, limit, total))
}
