package storage

import (
	"context"
	"errors"

	"github.com/shopstack/commerce-core/internal/app/domain/order"
	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/domain/user"
)

// Sentinel errors shared by all store implementations. Services translate
// these into the domain error taxonomy; they never reach callers raw.
var (
	// ErrNotFound reports that no record matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate reports a unique-constraint violation.
	ErrDuplicate = errors.New("unique constraint violated")
	// ErrForeignKey reports a broken reference between records.
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// UserStore persists account holders.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// ProductStore persists catalog records.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	GetProduct(ctx context.Context, id string) (product.Product, error)
	ListProducts(ctx context.Context, filter product.ListFilter) ([]product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStore persists orders and their product associations.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error)
	CountOrdersForProduct(ctx context.Context, productID string) (int, error)
}
