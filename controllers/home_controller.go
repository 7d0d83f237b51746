package controllers

import (
	"context"
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

// Catalog is the read side of the shop used by the storefront controllers.
type Catalog interface {
	Home(ctx context.Context) models.HomePage
	ListProducts(ctx context.Context, categoryID, limit, offset int) ([]models.Product, int, error)
	Search(ctx context.Context, term string, limit, offset int) ([]models.Product, int, error)
	ProductDetails(ctx context.Context, id int) (*models.ProductDetails, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryDetails(ctx context.Context, id int) (*models.Category, error)
	CategoryProducts(ctx context.Context, id, limit, offset int) (*models.Category, []models.Product, int, error)
	AddReview(ctx context.Context, userID, productID int, req models.ReviewRequest) (*models.ProductReview, error)
}

type HomeController struct {
	catalog Catalog
}

func NewHomeController(catalog Catalog) *HomeController {
	return &HomeController{catalog: catalog}
}

// Index godoc
// @Summary Storefront home page
// @Description Featured products, newest products and top level categories
// @Tags Storefront
// @Produce json
// @Success 200 {object} models.Response{data=models.HomePage}
// @Router / [get]
func (ctrl *HomeController) Index(c *gin.Context) {
	ok(c, http.StatusOK, "Home page retrieved", ctrl.catalog.Home(c.Request.Context()))
}
