// Package app wires the domain services to their stores.
package app

import (
	"github.com/shopstack/commerce-core/internal/app/services/accounts"
	"github.com/shopstack/commerce-core/internal/app/services/catalog"
	"github.com/shopstack/commerce-core/internal/app/services/orders"
	"github.com/shopstack/commerce-core/internal/app/storage"
	"github.com/shopstack/commerce-core/internal/app/storage/memory"
	"github.com/shopstack/commerce-core/internal/auth"
	"github.com/shopstack/commerce-core/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users    storage.UserStore
	Products storage.ProductStore
	Orders   storage.OrderStore
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Accounts *accounts.Service
	Catalog  *catalog.Service
	Orders   *orders.Service
}

// New builds a fully initialised application with the provided stores and
// auth primitives.
func New(stores Stores, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Products == nil {
		stores.Products = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}

	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultBcryptCost)
	}

	return &Application{
		log:      log,
		Accounts: accounts.New(stores.Users, hasher, tokens, log),
		Catalog:  catalog.New(stores.Products, stores.Orders, log),
		Orders:   orders.New(stores.Orders, stores.Products, log),
	}
}
