// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopstack/commerce-core/internal/app/domain/order"
	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/app/storage"
)

// Store keeps all records in process memory.
type Store struct {
	mu             sync.RWMutex
	users          map[string]user.User
	usersByEmail   map[string]string
	products       map[string]product.Product
	productsByName map[string]string
	productOrder   []string // insertion order for listing
	orders         map[string]order.Order
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:          make(map[string]user.User),
		usersByEmail:   make(map[string]string),
		products:       make(map[string]product.Product),
		productsByName: make(map[string]string),
		orders:         make(map[string]order.Order),
	}
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeKey(u.Email)
	if _, exists := s.usersByEmail[email]; exists {
		return user.User{}, storage.ErrDuplicate
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[normalizeKey(email)]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// ProductStore implementation -------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := normalizeKey(p.Name)
	if _, exists := s.productsByName[name]; exists {
		return product.Product{}, storage.ErrDuplicate
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products[p.ID] = p
	s.productsByName[name] = p.ID
	s.productOrder = append(s.productOrder, p.ID)
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}

	name := normalizeKey(p.Name)
	if other, exists := s.productsByName[name]; exists && other != p.ID {
		return product.Product{}, storage.ErrDuplicate
	}

	delete(s.productsByName, normalizeKey(existing.Name))
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.products[p.ID] = p
	s.productsByName[name] = p.ID
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProducts(_ context.Context, filter product.ListFilter) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]product.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	if filter.Skip >= len(matched) {
		return []product.Product{}, nil
	}
	matched = matched[filter.Skip:]
	if filter.Take > 0 && filter.Take < len(matched) {
		matched = matched[:filter.Take]
	}
	out := make([]product.Product, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return storage.ErrNotFound
	}

	delete(s.products, id)
	delete(s.productsByName, normalizeKey(p.Name))
	for i, pid := range s.productOrder {
		if pid == id {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// OrderStore implementation ---------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pid := range o.ProductIDs {
		if _, ok := s.products[pid]; !ok {
			return order.Order{}, storage.ErrForeignKey
		}
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	o.ProductIDs = cloneStrings(o.ProductIDs)
	o.Products = nil

	s.orders[o.ID] = o
	return s.withProductsLocked(o), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, storage.ErrNotFound
	}
	return s.withProductsLocked(o), nil
}

func (s *Store) ListOrdersForUser(_ context.Context, userID string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, s.withProductsLocked(o))
		}
	}
	return out, nil
}

func (s *Store) CountOrdersForProduct(_ context.Context, productID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, o := range s.orders {
		for _, pid := range o.ProductIDs {
			if pid == productID {
				count++
				break
			}
		}
	}
	return count, nil
}

// withProductsLocked resolves the order's product associations. Products
// deleted after order creation cannot exist: deletion is refused while
// referenced, so every id still resolves.
func (s *Store) withProductsLocked(o order.Order) order.Order {
	o.ProductIDs = cloneStrings(o.ProductIDs)
	o.Products = make([]product.Product, 0, len(o.ProductIDs))
	for _, pid := range o.ProductIDs {
		if p, ok := s.products[pid]; ok {
			o.Products = append(o.Products, p)
		}
	}
	return o
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
