// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bazaarhq/marketplace/internal/auth"
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.TenantRepository   = (*TenantRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.CartRepository     = (*CartRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.WishlistRepository = (*WishlistRepo)(nil)
	_ auth.RevocationStore          = (*Revocations)(nil)
)

// UserRepo assigns sequential ids and keeps users in a map.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]*domain.User{}}
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = "user-" + strconv.Itoa(len(r.users)+1)
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepo) GetByUsername(_ context.Context, tenantID, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// Revocations is a RevocationStore without expiry.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *Revocations) Revoke(_ context.Context, id string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[id] = until
	return nil
}

func (f *Revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[id]
	return ok, nil
}

// TenantRepo keeps tenant and detail rows together, as the SQL schema does.
type TenantRepo struct {
	mu      sync.Mutex
	tenants map[string]domain.TenantOwnership
	seq     int
}

func NewTenantRepo() *TenantRepo {
	return &TenantRepo{tenants: map[string]domain.TenantOwnership{}}
}

func (r *TenantRepo) Create(_ context.Context, rec *domain.TenantOwnership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec.Tenant.ID = "tenant-" + strconv.Itoa(r.seq)
	rec.Detail.ID = "detail-" + strconv.Itoa(r.seq)
	rec.Detail.TenantID = rec.Tenant.ID
	r.tenants[rec.Tenant.ID] = *rec
	return nil
}

func (r *TenantRepo) Get(_ context.Context, id string) (*domain.TenantOwnership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rec, nil
}

func (r *TenantRepo) Replace(_ context.Context, oldID string, rec *domain.TenantOwnership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.tenants[oldID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.tenants, oldID)
	rec.Detail.ID = old.Detail.ID
	rec.Detail.TenantID = rec.Tenant.ID
	r.tenants[rec.Tenant.ID] = *rec
	return nil
}

func (r *TenantRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tenants, id)
	return nil
}

// ProductRepo filters every query by tenant.
type ProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	seq      int
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: map[string]domain.Product{}}
}

func (r *ProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = "prod-" + strconv.Itoa(r.seq)
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return pgx.ErrNoRows
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[id]
	if !ok || cur.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *ProductRepo) GetByName(_ context.Context, tenantID, name string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ProductRepo) GetMany(_ context.Context, tenantID string, ids []string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) ListByTenant(_ context.Context, tenantID string) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.TenantID == tenantID }), nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, tenantID, categoryID string) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool {
		return p.TenantID == tenantID && p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (r *ProductRepo) filter(keep func(domain.Product) bool) []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryRepo filters every query by tenant.
type CategoryRepo struct {
	mu         sync.Mutex
	categories map[string]domain.Category
	seq        int
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{categories: map[string]domain.Category{}}
}

func (r *CategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = "cat-" + strconv.Itoa(r.seq)
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.categories[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return pgx.ErrNoRows
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.categories[id]
	if !ok || cur.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *CategoryRepo) GetByName(_ context.Context, tenantID, name string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.TenantID == tenantID && c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *CategoryRepo) ListByTenant(_ context.Context, tenantID string) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Category{}
	for _, c := range r.categories {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CartRepo keeps cart lines in insertion order.
type CartRepo struct {
	mu    sync.Mutex
	items map[string]domain.CartItem
	seq   int
}

func NewCartRepo() *CartRepo {
	return &CartRepo{items: map[string]domain.CartItem{}}
}

func (r *CartRepo) Create(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = "cart-" + strconv.Itoa(r.seq)
	item.CreatedAt, item.UpdatedAt = time.Now(), time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *CartRepo) UpdateQuantity(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[item.ID]
	if !ok || cur.TenantID != item.TenantID {
		return pgx.ErrNoRows
	}
	cur.Quantity = item.Quantity
	cur.UpdatedAt = time.Now()
	item.UpdatedAt = cur.UpdatedAt
	r.items[item.ID] = cur
	return nil
}

func (r *CartRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok || cur.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *CartRepo) GetByID(_ context.Context, tenantID, id string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *CartRepo) GetByProduct(_ context.Context, tenantID, userID, productID string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.UserID == userID && item.ProductID == productID {
			cp := item
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *CartRepo) ListByUser(_ context.Context, tenantID, userID string) ([]domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(tenantID, userID), nil
}

func (r *CartRepo) listLocked(tenantID, userID string) []domain.CartItem {
	out := []domain.CartItem{}
	for _, item := range r.items {
		if item.TenantID == tenantID && item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *CartRepo) clear(tenantID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.TenantID == tenantID && item.UserID == userID {
			delete(r.items, id)
		}
	}
}

// OrderRepo empties the linked CartRepo when an order is placed, as the SQL transaction does.
type OrderRepo struct {
	mu       sync.Mutex
	carts    *CartRepo
	orders   map[string]domain.Order
	payments map[string]domain.Payment
	seq      int
}

func NewOrderRepo(carts *CartRepo) *OrderRepo {
	return &OrderRepo{carts: carts, orders: map[string]domain.Order{}, payments: map[string]domain.Payment{}}
}

func (r *OrderRepo) Place(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	r.seq++
	order.ID = "order-" + strconv.Itoa(r.seq)
	order.CreatedAt, order.UpdatedAt = time.Now(), time.Now()
	items := make([]domain.OrderItem, len(order.Items))
	for i := range order.Items {
		order.Items[i].ID = order.ID + "-item-" + strconv.Itoa(i+1)
		order.Items[i].OrderID = order.ID
		items[i] = order.Items[i]
	}
	cp := *order
	cp.Items = items
	r.orders[order.ID] = cp
	r.mu.Unlock()

	if r.carts != nil {
		r.carts.clear(order.TenantID, order.UserID)
	}
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	order.Items = append([]domain.OrderItem{}, order.Items...)
	return &order, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, tenantID, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Order{}
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.UserID == userID {
			order.Items = nil
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *OrderRepo) Transition(_ context.Context, tenantID, id string, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitionLocked(tenantID, id, from, to)
}

func (r *OrderRepo) transitionLocked(tenantID, id string, from, to domain.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok || order.TenantID != tenantID || order.Status != from {
		return pgx.ErrNoRows
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func (r *OrderRepo) Pay(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transitionLocked(payment.TenantID, payment.OrderID, domain.OrderPending, domain.OrderPaid); err != nil {
		return err
	}
	payment.ID = "payment-" + payment.OrderID
	payment.CreatedAt = time.Now()
	r.payments[payment.OrderID] = *payment
	return nil
}

// Payment returns the payment recorded for orderID.
func (r *OrderRepo) Payment(orderID string) (domain.Payment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[orderID]
	return p, ok
}

// WishlistRepo cascades detail rows on delete, as the SQL schema does.
type WishlistRepo struct {
	mu        sync.Mutex
	wishlists map[string]domain.Wishlist
	details   map[string]domain.WishlistDetail
	seq       int
}

func NewWishlistRepo() *WishlistRepo {
	return &WishlistRepo{wishlists: map[string]domain.Wishlist{}, details: map[string]domain.WishlistDetail{}}
}

func (r *WishlistRepo) Create(_ context.Context, w *domain.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	w.ID = "wishlist-" + strconv.Itoa(r.seq)
	w.CreatedAt, w.UpdatedAt = time.Now(), time.Now()
	r.wishlists[w.ID] = *w
	return nil
}

func (r *WishlistRepo) Rename(_ context.Context, w *domain.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.wishlists[w.ID]
	if !ok || cur.TenantID != w.TenantID {
		return pgx.ErrNoRows
	}
	cur.Name = w.Name
	cur.UpdatedAt = time.Now()
	w.UpdatedAt = cur.UpdatedAt
	r.wishlists[w.ID] = cur
	return nil
}

func (r *WishlistRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.wishlists[id]
	if !ok || cur.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(r.wishlists, id)
	for detailID, d := range r.details {
		if d.WishlistID == id {
			delete(r.details, detailID)
		}
	}
	return nil
}

func (r *WishlistRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wishlists[id]
	if !ok || w.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &w, nil
}

func (r *WishlistRepo) ListByUser(_ context.Context, tenantID, userID string) ([]domain.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Wishlist{}
	for _, w := range r.wishlists {
		if w.TenantID == tenantID && w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *WishlistRepo) AddDetail(_ context.Context, d *domain.WishlistDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wishlists[d.WishlistID]; !ok {
		return pgx.ErrNoRows
	}
	r.seq++
	d.ID = "detail-" + strconv.Itoa(r.seq)
	d.CreatedAt = time.Now()
	r.details[d.ID] = *d
	return nil
}

func (r *WishlistRepo) GetDetail(_ context.Context, id string) (*domain.WishlistDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (r *WishlistRepo) RemoveDetail(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.details, id)
	return nil
}

func (r *WishlistRepo) ListDetails(_ context.Context, wishlistID string) ([]domain.WishlistDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WishlistDetail{}
	for _, d := range r.details {
		if d.WishlistID == wishlistID {
			out = append(out, d)
		}
	}
	return out, nil
}

// Catalog answers product lookups from a fixed set, or fails with Err.
type Catalog struct {
	mu       sync.Mutex
	Products map[string]domain.Product
	Err      error
}

func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{Products: map[string]domain.Product{}}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	return c
}

func (c *Catalog) GetMany(_ context.Context, ids []string) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := c.Products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SetPrice changes a product's price for later lookups.
func (c *Catalog) SetPrice(id string, price int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.Products[id]
	p.Price = price
	c.Products[id] = p
}
