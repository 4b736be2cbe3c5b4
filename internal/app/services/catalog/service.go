// Package catalog manages the product catalog: listing with pagination and
// filters, and admin-restricted mutation with referential-integrity checks.
package catalog

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/storage"
	"github.com/shopstack/commerce-core/internal/errors"
	"github.com/shopstack/commerce-core/pkg/logger"
)

const defaultTake = 10

// Service manages catalog records.
type Service struct {
	products storage.ProductStore
	orders   storage.OrderStore
	log      *logger.Logger
}

// New constructs a catalog service. The order store is consulted only for the
// deletion integrity check.
func New(products storage.ProductStore, orders storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{products: products, orders: orders, log: log}
}

// ListParams are the raw query values for a listing request. Skip and Take
// must parse as integers with skip >= 0 and take > 0; absent values default
// to 0 and 10.
type ListParams struct {
	Skip     string
	Take     string
	Category string
	MaxPrice string
}

// List returns catalog records matching the filters.
func (s *Service) List(ctx context.Context, params ListParams) ([]product.Product, error) {
	filter, err := parseFilter(params)
	if err != nil {
		return nil, err
	}
	return s.products.ListProducts(ctx, filter)
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return product.Product{}, errors.NotFound("product not found")
		}
		return product.Product{}, errors.Internal("get product", err)
	}
	return p, nil
}

// Create adds a product. The store's unique constraint on name is the sole
// enforcement mechanism for uniqueness.
func (s *Service) Create(ctx context.Context, p product.Product) (product.Product, error) {
	if err := validate(p); err != nil {
		return product.Product{}, err
	}

	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return product.Product{}, errors.Conflict("product name already exists")
		}
		return product.Product{}, errors.Internal("create product", err)
	}

	s.log.WithField("product_id", created.ID).WithField("name", created.Name).Info("product created")
	return created, nil
}

// Update applies the supplied fields to an existing product; omitted fields
// are unchanged.
func (s *Service) Update(ctx context.Context, id string, upd product.Update) (product.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return product.Product{}, errors.NotFound("product not found")
		}
		return product.Product{}, errors.Internal("get product", err)
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if err := validate(p); err != nil {
		return product.Product{}, err
	}

	updated, err := s.products.UpdateProduct(ctx, p)
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrNotFound):
			return product.Product{}, errors.NotFound("product not found")
		case stderrors.Is(err, storage.ErrDuplicate):
			return product.Product{}, errors.Conflict("product name already exists")
		}
		return product.Product{}, errors.Internal("update product", err)
	}
	return updated, nil
}

// Delete removes a product and returns the removed record. Deletion is
// refused, never cascaded, while any order references the product; the check
// runs before the physical delete so the caller sees a domain conflict
// rather than a store constraint failure.
func (s *Service) Delete(ctx context.Context, id string) (product.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return product.Product{}, errors.NotFound("product not found")
		}
		return product.Product{}, errors.Internal("get product", err)
	}

	refs, err := s.orders.CountOrdersForProduct(ctx, id)
	if err != nil {
		return product.Product{}, errors.Internal("count referencing orders", err)
	}
	if refs > 0 {
		return product.Product{}, errors.Conflict("product has orders").WithDetails("orders", refs)
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return product.Product{}, errors.NotFound("product not found")
		}
		return product.Product{}, errors.Internal("delete product", err)
	}

	s.log.WithField("product_id", id).Info("product deleted")
	return p, nil
}

func parseFilter(params ListParams) (product.ListFilter, error) {
	filter := product.ListFilter{Take: defaultTake}

	if raw := strings.TrimSpace(params.Skip); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return product.ListFilter{}, errors.Validation("invalid pagination parameters")
		}
		filter.Skip = n
	}
	if raw := strings.TrimSpace(params.Take); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return product.ListFilter{}, errors.Validation("invalid pagination parameters")
		}
		filter.Take = n
	}
	filter.Category = strings.TrimSpace(params.Category)
	if raw := strings.TrimSpace(params.MaxPrice); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return product.ListFilter{}, errors.Validation("invalid price filter")
		}
		filter.MaxPrice = &v
	}
	return filter, nil
}

func validate(p product.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Validation("name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return errors.Validation("category is required")
	}
	if p.Price < 0 {
		return errors.Validation("price must not be negative")
	}
	if p.Stock < 0 {
		return errors.Validation("stock must not be negative")
	}
	return nil
}
