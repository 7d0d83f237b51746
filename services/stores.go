package services

import (
	"context"
	"errors"
	"time"

	"storefront/models"
	"storefront/repositories"

	"github.com/shopspring/decimal"
)

// The store interfaces are satisfied by the postgres repositories and by
// in-memory fakes in tests.

type ProductStore interface {
	ListActive(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Related(ctx context.Context, categoryID, excludeID, limit int) ([]models.Product, error)
	Images(ctx context.Context, productID int) ([]models.ProductImage, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Product, int, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
	AddImage(ctx context.Context, img *models.ProductImage) error
	SetMainImageIfEmpty(ctx context.Context, productID int, url string) error
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
}

type CategoryStore interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	Children(ctx context.Context, parentID int) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type CartStore interface {
	GetOrCreate(ctx context.Context, userID int) (*models.Cart, error)
	FindByUser(ctx context.Context, userID int) (*models.Cart, error)
	GetItem(ctx context.Context, userID, itemID int) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID int) (*models.CartItem, error)
	AddItem(ctx context.Context, cartID, productID, qty int, unitPrice decimal.Decimal) (int, error)
	UpdateItemQuantity(ctx context.Context, itemID, qty int) error
	DeleteItem(ctx context.Context, itemID int) error
	Clear(ctx context.Context, userID int) error
	Count(ctx context.Context, userID int) (int, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order, couponID int) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.Order, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
	UpdatePayment(ctx context.Context, id int, payment models.PaymentStatus, status models.OrderStatus, paymentID string) error
	UpdateStatus(ctx context.Context, o *models.Order) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpsertAdmin(ctx context.Context, email, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	Count(ctx context.Context) (int, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *models.ProductReview) error
	ListApproved(ctx context.Context, productID int) ([]models.ProductReview, error)
	ListPending(ctx context.Context) ([]models.ProductReview, error)
	Approve(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Deactivate(ctx context.Context, id int) error
}

// OrderNotifications is the fire-and-forget side channel for order and
// account events.
type OrderNotifications interface {
	OrderConfirmed(order models.Order)
	OrderStatusChanged(order models.Order)
	Welcome(user models.User)
}

// mapStoreErr swaps repository sentinels for the service-level ones.
func mapStoreErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound
	case errors.Is(err, repositories.ErrInUse):
		return ErrInUse
	case errors.Is(err, repositories.ErrDuplicate):
		return ErrDuplicate
	case errors.Is(err, repositories.ErrInsufficientStock):
		return ErrInsufficientStock
	}
	return err
}
