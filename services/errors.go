package services

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrCouponInvalid      = errors.New("coupon is invalid or expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("invalid old password")
	ErrUserNotFound       = errors.New("user not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrInUse              = errors.New("record is still referenced")
	ErrDuplicate          = errors.New("record already exists")
	ErrValidation         = errors.New("validation failed")
)
