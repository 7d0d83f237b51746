package controllers

import (
	"context"
	"net/http"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartManager interface {
	GetCart(ctx context.Context, userID int) (*models.Cart, error)
	AddToCart(ctx context.Context, userID, productID, qty int) (int, error)
	RemoveFromCart(ctx context.Context, userID, itemID int) (int, error)
	UpdateQuantity(ctx context.Context, userID, itemID, qty int) (*services.CartLineUpdate, error)
	ClearCart(ctx context.Context, userID int) error
	CartCount(ctx context.Context, userID int) (int, error)
}

type CartController struct {
	carts CartManager
	log   logrus.FieldLogger
}

func NewCartController(carts CartManager, log logrus.FieldLogger) *CartController {
	return &CartController{carts: carts, log: log}
}

type cartView struct {
	*models.Cart
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Get godoc
// @Summary Current user's cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [get]
func (ctrl *CartController) Get(c *gin.Context) {
	cart, err := ctrl.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "Failed to load cart", err)
		return
	}

	ok(c, http.StatusOK, "Cart retrieved successfully", cartView{
		Cart:  cart,
		Total: cart.Total(),
		Count: cart.Count(),
	})
}

// Add godoc
// @Summary Add a product to the cart
// @Description Quantity defaults to 1; the line may not exceed available stock
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddToCartRequest true "Product and quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/add [post]
func (ctrl *CartController) Add(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	count, err := ctrl.carts.AddToCart(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, ctrl.log, "Failed to add to cart", err)
		return
	}

	ok(c, http.StatusOK, "Product added to cart", gin.H{"cart_count": count})
}

// Remove godoc
// @Summary Remove a cart line
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.RemoveFromCartRequest true "Cart item"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/remove [post]
func (ctrl *CartController) Remove(c *gin.Context) {
	var req models.RemoveFromCartRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	count, err := ctrl.carts.RemoveFromCart(c.Request.Context(), currentUserID(c), req.CartItemID)
	if err != nil {
		respondError(c, ctrl.log, "Failed to remove item", err)
		return
	}

	ok(c, http.StatusOK, "Item removed from cart", gin.H{"cart_count": count})
}

// Update godoc
// @Summary Change a cart line quantity
// @Description A quantity of zero or less removes the line
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateCartItemRequest true "Cart item and quantity"
// @Success 200 {object} models.Response{data=services.CartLineUpdate}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/update [post]
func (ctrl *CartController) Update(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	update, err := ctrl.carts.UpdateQuantity(c.Request.Context(), currentUserID(c), req.CartItemID, req.Quantity)
	if err != nil {
		respondError(c, ctrl.log, "Failed to update cart", err)
		return
	}

	ok(c, http.StatusOK, "Cart updated", update)
}

// Clear godoc
// @Summary Empty the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart/clear [post]
func (ctrl *CartController) Clear(c *gin.Context) {
	if err := ctrl.carts.ClearCart(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, ctrl.log, "Failed to clear cart", err)
		return
	}

	ok(c, http.StatusOK, "Cart cleared", gin.H{"cart_count": 0})
}

// Count godoc
// @Summary Number of units in the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart/count [get]
func (ctrl *CartController) Count(c *gin.Context) {
	count, err := ctrl.carts.CartCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "Failed to count cart", err)
		return
	}

	ok(c, http.StatusOK, "Cart count", gin.H{"cart_count": count})
}
