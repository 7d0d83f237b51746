package controllers

import (
	"context"
	"errors"
	"net/http"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Checkout interface {
	Summary(ctx context.Context, userID int, couponCode string) (*models.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, userID int, req models.PlaceOrderRequest) (*models.Order, error)
	Pay(ctx context.Context, userID int, req models.PaymentRequest) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID int) (*models.Order, error)
	History(ctx context.Context, userID int) ([]models.Order, error)
}

type CheckoutController struct {
	checkout Checkout
	log      logrus.FieldLogger
}

func NewCheckoutController(checkout Checkout, log logrus.FieldLogger) *CheckoutController {
	return &CheckoutController{checkout: checkout, log: log}
}

// Summary godoc
// @Summary Checkout summary
// @Description Cart lines with subtotal, shipping, tax, discount and total
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Param coupon_code query string false "Coupon code"
// @Success 200 {object} models.Response{data=models.CheckoutSummary}
// @Failure 400 {object} models.ErrorResponse
// @Router /checkout [get]
func (ctrl *CheckoutController) Summary(c *gin.Context) {
	summary, err := ctrl.checkout.Summary(c.Request.Context(), currentUserID(c), c.Query("coupon_code"))
	if err != nil {
		respondError(c, ctrl.log, "Failed to build checkout summary", err)
		return
	}

	ok(c, http.StatusOK, "Checkout summary", summary)
}

// PlaceOrder godoc
// @Summary Place an order from the cart
// @Description Creates a pending order, takes stock and empties the cart
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.PlaceOrderRequest true "Shipping details"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Router /checkout/place-order [post]
func (ctrl *CheckoutController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.checkout.PlaceOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to place order", err)
		return
	}

	ok(c, http.StatusCreated, "Order placed successfully", order)
}

// Pay godoc
// @Summary Pay for an order
// @Description Charges the order total with the test payment gateway
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.PaymentRequest true "Card details"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 402 {object} models.ErrorResponse
// @Router /checkout/pay [post]
func (ctrl *CheckoutController) Pay(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	order, err := ctrl.checkout.Pay(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		if errors.Is(err, services.ErrPaymentDeclined) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"success": false,
				"message": err.Error(),
				"status":  services.PaymentResultFailed,
			})
			return
		}
		respondError(c, ctrl.log, "Failed to process payment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Payment completed",
		"status":     services.PaymentResultSuccess,
		"payment_id": order.PaymentID,
		"data":       order,
	})
}

// Confirmation godoc
// @Summary Order confirmation
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout/confirmation/{id} [get]
func (ctrl *CheckoutController) Confirmation(c *gin.Context) {
	ctrl.showOrder(c, "Order confirmation")
}

// OrderDetails godoc
// @Summary Order details
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout/orders/{id} [get]
func (ctrl *CheckoutController) OrderDetails(c *gin.Context) {
	ctrl.showOrder(c, "Order retrieved successfully")
}

func (ctrl *CheckoutController) showOrder(c *gin.Context, message string) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	order, err := ctrl.checkout.GetOrder(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, ctrl.log, "Failed to load order", err)
		return
	}

	ok(c, http.StatusOK, message, order)
}

// History godoc
// @Summary Order history
// @Description The current user's orders, newest first
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Order}
// @Router /checkout/orders [get]
func (ctrl *CheckoutController) History(c *gin.Context) {
	orders, err := ctrl.checkout.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "Failed to load orders", err)
		return
	}

	ok(c, http.StatusOK, "Orders retrieved successfully", orders)
}
