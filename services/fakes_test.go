package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/models"
	"storefront/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeProducts struct {
	mu       sync.Mutex
	items    map[int]*models.Product
	images   map[int][]models.ProductImage
	listErr  error
	nextID   int
	inUse    map[int]bool
	listHits int
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{
		items:  map[int]*models.Product{},
		images: map[int][]models.ProductImage{},
		inUse:  map[int]bool{},
		nextID: 100,
	}
	for i := range products {
		p := products[i]
		f.items[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) ListActive(_ context.Context, flt models.ProductFilter) ([]models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Product
	for _, p := range f.items {
		if !p.IsActive || p.StockQuantity <= 0 {
			continue
		}
		if flt.CategoryID > 0 && p.CategoryID != flt.CategoryID {
			continue
		}
		if flt.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if flt.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Related(_ context.Context, categoryID, excludeID, limit int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.items {
		if p.CategoryID == categoryID && p.ID != excludeID && p.IsActive && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Images(_ context.Context, productID int) ([]models.ProductImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[productID], nil
}

func (f *fakeProducts) ListAll(_ context.Context, _, _ int) ([]models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.SKU == p.SKU {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[id] {
		return repositories.ErrInUse
	}
	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) AddImage(_ context.Context, img *models.ProductImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	img.ID = len(f.images[img.ProductID]) + 1
	img.DisplayOrder = img.ID
	f.images[img.ProductID] = append(f.images[img.ProductID], *img)
	return nil
}

func (f *fakeProducts) SetMainImageIfEmpty(_ context.Context, productID int, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[productID]; ok && p.ImageURL == "" {
		p.ImageURL = url
	}
	return nil
}

func (f *fakeProducts) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), nil
}

func (f *fakeProducts) CountLowStock(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.items {
		if p.IsActive && p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

// takeStock mirrors the guarded decrement the order repository runs.
func (f *fakeProducts) takeStock(id, qty int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.StockQuantity < qty {
		return false
	}
	p.StockQuantity -= qty
	return true
}

type fakeCategories struct {
	items   map[int]*models.Category
	listErr error
	nextID  int
}

func newFakeCategories(categories ...models.Category) *fakeCategories {
	f := &fakeCategories{items: map[int]*models.Category{}, nextID: 100}
	for i := range categories {
		c := categories[i]
		f.items[c.ID] = &c
	}
	return f
}

func (f *fakeCategories) sorted(activeOnly bool) []models.Category {
	var out []models.Category
	for _, c := range f.items {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeCategories) ListActive(context.Context) ([]models.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(true), nil
}

func (f *fakeCategories) ListAll(context.Context) ([]models.Category, error) {
	return f.sorted(false), nil
}

func (f *fakeCategories) Children(_ context.Context, parentID int) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.sorted(true) {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int) (*models.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) error {
	if _, ok := f.items[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id int) error {
	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCategories) Count(context.Context) (int, error) {
	return len(f.items), nil
}

// fakeCarts joins cart lines with the product fake the way the repository
// joins cart_items with products.
type fakeCarts struct {
	products *fakeProducts
	carts    map[int]*models.Cart
	nextCart int
	nextItem int
}

func newFakeCarts(products *fakeProducts) *fakeCarts {
	return &fakeCarts{products: products, carts: map[int]*models.Cart{}}
}

func (f *fakeCarts) hydrate(c *models.Cart) *models.Cart {
	out := *c
	out.Items = nil
	for _, it := range c.Items {
		if p, ok := f.products.items[it.ProductID]; ok {
			it.ProductName = p.Name
			it.ProductSKU = p.SKU
			it.StockQuantity = p.StockQuantity
			it.IsActive = p.IsActive
		}
		out.Items = append(out.Items, it)
	}
	return &out
}

func (f *fakeCarts) GetOrCreate(_ context.Context, userID int) (*models.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		f.nextCart++
		c = &models.Cart{ID: f.nextCart, UserID: userID}
		f.carts[userID] = c
	}
	return f.hydrate(c), nil
}

func (f *fakeCarts) FindByUser(_ context.Context, userID int) (*models.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return f.hydrate(c), nil
}

func (f *fakeCarts) GetItem(_ context.Context, userID, itemID int) (*models.CartItem, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, it := range f.hydrate(c).Items {
		if it.ID == itemID {
			return &it, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCarts) FindItemByProduct(_ context.Context, cartID, productID int) (*models.CartItem, error) {
	for _, c := range f.carts {
		if c.ID != cartID {
			continue
		}
		for _, it := range c.Items {
			if it.ProductID == productID {
				return &it, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCarts) AddItem(_ context.Context, cartID, productID, qty int, unitPrice decimal.Decimal) (int, error) {
	for _, c := range f.carts {
		if c.ID != cartID {
			continue
		}
		for i := range c.Items {
			if c.Items[i].ProductID == productID {
				c.Items[i].Quantity += qty
				c.Items[i].UnitPrice = unitPrice
				return c.Items[i].ID, nil
			}
		}
		f.nextItem++
		c.Items = append(c.Items, models.CartItem{
			ID: f.nextItem, CartID: cartID, ProductID: productID, Quantity: qty, UnitPrice: unitPrice,
		})
		return f.nextItem, nil
	}
	return 0, repositories.ErrNotFound
}

func (f *fakeCarts) UpdateItemQuantity(_ context.Context, itemID, qty int) error {
	for _, c := range f.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity = qty
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCarts) DeleteItem(_ context.Context, itemID int) error {
	for _, c := range f.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCarts) Clear(_ context.Context, userID int) error {
	if c, ok := f.carts[userID]; ok {
		c.Items = nil
	}
	return nil
}

func (f *fakeCarts) Count(_ context.Context, userID int) (int, error) {
	c, ok := f.carts[userID]
	if !ok {
		return 0, nil
	}
	return c.Count(), nil
}

type paymentUpdate struct {
	Payment   models.PaymentStatus
	Status    models.OrderStatus
	PaymentID string
}

// fakeOrders applies stock, coupon and cart side effects all-or-nothing.
type fakeOrders struct {
	products *fakeProducts
	carts    *fakeCarts
	coupons  *fakeCoupons
	orders   map[int]*models.Order
	payments []paymentUpdate
	nextID   int
}

func newFakeOrders(products *fakeProducts, carts *fakeCarts, coupons *fakeCoupons) *fakeOrders {
	return &fakeOrders{products: products, carts: carts, coupons: coupons, orders: map[int]*models.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order, couponID int) error {
	for _, it := range o.Items {
		p, ok := f.products.items[it.ProductID]
		if !ok || p.StockQuantity < it.Quantity {
			return repositories.ErrInsufficientStock
		}
	}
	if couponID > 0 {
		c := f.coupons.byID(couponID)
		if c == nil || (c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit) {
			return repositories.ErrCouponExhausted
		}
		c.UsedCount++
	}
	for _, it := range o.Items {
		f.products.takeStock(it.ProductID, it.Quantity)
	}
	_ = f.carts.Clear(context.Background(), o.UserID)

	f.nextID++
	o.ID = f.nextID
	o.OrderDate = time.Now()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(_ context.Context, flt models.OrderFilter) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range f.orders {
		if flt.Status == "" || o.OrderStatus == flt.Status {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (f *fakeOrders) Recent(_ context.Context, limit int) ([]models.Order, error) {
	out, _, _ := f.List(context.Background(), models.OrderFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrders) UpdatePayment(_ context.Context, id int, payment models.PaymentStatus, status models.OrderStatus, paymentID string) error {
	o, ok := f.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.PaymentStatus = payment
	o.OrderStatus = status
	o.PaymentID = paymentID
	f.payments = append(f.payments, paymentUpdate{payment, status, paymentID})
	return nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *models.Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) Count(context.Context) (int, error) {
	return len(f.orders), nil
}

func (f *fakeOrders) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, o := range f.orders {
		if !o.OrderDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrders) CountByStatus(_ context.Context, status models.OrderStatus) (int, error) {
	n := 0
	for _, o := range f.orders {
		if o.OrderStatus == status {
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	users  map[int]*models.User
	nextID int
	admins map[string]string
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[int]*models.User{}, admins: map[string]string{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id int) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) UpsertAdmin(_ context.Context, email, hash string) error {
	f.admins[email] = hash
	return nil
}

func (f *fakeUsers) List(_ context.Context, _, _ int) ([]models.User, int, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	return len(f.users), nil
}

type fakeReviews struct {
	reviews map[int]*models.ProductReview
	nextID  int
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[int]*models.ProductReview{}}
}

func (f *fakeReviews) Create(_ context.Context, rv *models.ProductReview) error {
	f.nextID++
	rv.ID = f.nextID
	rv.IsApproved = false
	cp := *rv
	f.reviews[rv.ID] = &cp
	return nil
}

func (f *fakeReviews) list(approved bool, productID int) []models.ProductReview {
	out := []models.ProductReview{}
	for _, rv := range f.reviews {
		if rv.IsApproved == approved && (productID == 0 || rv.ProductID == productID) {
			out = append(out, *rv)
		}
	}
	return out
}

func (f *fakeReviews) ListApproved(_ context.Context, productID int) ([]models.ProductReview, error) {
	return f.list(true, productID), nil
}

func (f *fakeReviews) ListPending(context.Context) ([]models.ProductReview, error) {
	return f.list(false, 0), nil
}

func (f *fakeReviews) Approve(_ context.Context, id int) error {
	rv, ok := f.reviews[id]
	if !ok {
		return repositories.ErrNotFound
	}
	rv.IsApproved = true
	return nil
}

func (f *fakeReviews) Delete(_ context.Context, id int) error {
	if _, ok := f.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

type fakeCoupons struct {
	coupons map[string]*models.Coupon
	nextID  int
}

func newFakeCoupons(coupons ...models.Coupon) *fakeCoupons {
	f := &fakeCoupons{coupons: map[string]*models.Coupon{}, nextID: 100}
	for i := range coupons {
		c := coupons[i]
		f.coupons[c.Code] = &c
	}
	return f
}

func (f *fakeCoupons) byID(id int) *models.Coupon {
	for _, c := range f.coupons {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCoupons) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoupons) List(context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCoupons) Create(_ context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if _, ok := f.coupons[c.Code]; ok {
		return repositories.ErrDuplicate
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.coupons[c.Code] = &cp
	return nil
}

func (f *fakeCoupons) Deactivate(_ context.Context, id int) error {
	c := f.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	c.IsActive = false
	return nil
}

type recordedNotifications struct {
	mu        sync.Mutex
	confirmed []models.Order
	changed   []models.Order
	welcomed  []models.User
}

func (r *recordedNotifications) OrderConfirmed(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, o)
}

func (r *recordedNotifications) OrderStatusChanged(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, o)
}

func (r *recordedNotifications) Welcome(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomed = append(r.welcomed, u)
}

type recordingInvalidator struct{ calls int }

func (r *recordingInvalidator) InvalidateCache(context.Context) { r.calls++ }
