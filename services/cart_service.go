package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/models"
	"storefront/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartService struct {
	carts    CartStore
	products ProductStore
	log      logrus.FieldLogger
}

func NewCartService(carts CartStore, products ProductStore, log logrus.FieldLogger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

type CartLineUpdate struct {
	Removed   bool            `json:"removed"`
	LineTotal decimal.Decimal `json:"line_total"`
	CartTotal decimal.Decimal `json:"cart_total"`
	CartCount int             `json:"cart_count"`
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// AddToCart adds qty units (1 when qty is zero) and returns the new cart count.
// The resulting line quantity may not exceed the product's stock.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, qty int) (int, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return 0, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, mapStoreErr(err, ErrProductNotFound)
	}
	if !product.IsActive {
		return 0, ErrProductNotFound
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}

	inCart := 0
	existing, err := s.carts.FindItemByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		inCart = existing.Quantity
	case !errors.Is(err, repositories.ErrNotFound):
		return 0, err
	}

	if !product.InStock(inCart + qty) {
		return 0, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, product.StockQuantity, product.Name)
	}

	if _, err := s.carts.AddItem(ctx, cart.ID, productID, qty, product.EffectivePrice()); err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "product_id": productID, "quantity": qty}).Debug("Added to cart")
	return s.carts.Count(ctx, userID)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID int) (int, error) {
	item, err := s.carts.GetItem(ctx, userID, itemID)
	if err != nil {
		return 0, mapStoreErr(err, ErrCartItemNotFound)
	}

	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return 0, mapStoreErr(err, ErrCartItemNotFound)
	}
	return s.carts.Count(ctx, userID)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID, qty int) (*CartLineUpdate, error) {
	item, err := s.carts.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, mapStoreErr(err, ErrCartItemNotFound)
	}

	update := &CartLineUpdate{LineTotal: decimal.Zero}
	if qty <= 0 {
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
			return nil, mapStoreErr(err, ErrCartItemNotFound)
		}
		update.Removed = true
	} else {
		if qty > item.StockQuantity {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, item.StockQuantity, item.ProductName)
		}
		if err := s.carts.UpdateItemQuantity(ctx, item.ID, qty); err != nil {
			return nil, mapStoreErr(err, ErrCartItemNotFound)
		}
		item.Quantity = qty
		update.LineTotal = item.LineTotal()
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.CartTotal = cart.Total()
	update.CartCount = cart.Count()
	return update, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID int) error {
	return s.carts.Clear(ctx, userID)
}

// CartCount is zero for users without a cart.
func (s *CartService) CartCount(ctx context.Context, userID int) (int, error) {
	return s.carts.Count(ctx, userID)
}
