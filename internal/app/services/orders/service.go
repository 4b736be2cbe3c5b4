// Package orders handles order creation and ownership-scoped retrieval.
package orders

import (
	"context"
	stderrors "errors"

	"github.com/shopstack/commerce-core/internal/app/domain/order"
	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/app/storage"
	"github.com/shopstack/commerce-core/internal/errors"
	"github.com/shopstack/commerce-core/pkg/logger"
)

// Service manages order records.
type Service struct {
	orders   storage.OrderStore
	products storage.ProductStore
	log      *logger.Logger
}

// New constructs an order service.
func New(orders storage.OrderStore, products storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{orders: orders, products: products, log: log}
}

// Create persists an order after verifying that every referenced product
// exists. The supplied total is trusted; the service does not recompute it
// from catalog state. An order with an unresolved reference is never
// persisted, even partially.
func (s *Service) Create(ctx context.Context, ownerID string, productIDs []string, totalPrice float64) (order.Order, error) {
	ids := dedupe(productIDs)
	if len(ids) == 0 {
		return order.Order{}, errors.Validation("productIds must not be empty")
	}
	if totalPrice < 0 {
		return order.Order{}, errors.Validation("totalPrice must not be negative")
	}

	for _, id := range ids {
		if _, err := s.products.GetProduct(ctx, id); err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return order.Order{}, errors.Validation("unknown product reference").WithDetails("productId", id)
			}
			return order.Order{}, errors.Internal("resolve product", err)
		}
	}

	created, err := s.orders.CreateOrder(ctx, order.Order{
		UserID:     ownerID,
		ProductIDs: ids,
		TotalPrice: totalPrice,
	})
	if err != nil {
		// A product deleted between the check above and the insert trips the
		// store's foreign key; surface it as the same referential failure.
		if stderrors.Is(err, storage.ErrForeignKey) {
			return order.Order{}, errors.Validation("unknown product reference")
		}
		return order.Order{}, errors.Internal("create order", err)
	}

	s.log.WithField("order_id", created.ID).WithField("user_id", ownerID).Info("order created")
	return created, nil
}

// FindAllForOwner returns the orders owned by the given user, each with its
// associated products.
func (s *Service) FindAllForOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	out, err := s.orders.ListOrdersForUser(ctx, ownerID)
	if err != nil {
		return nil, errors.Internal("list orders", err)
	}
	return out, nil
}

// FindOne returns an order visible to the requester: its owner, or any admin.
func (s *Service) FindOne(ctx context.Context, id, requesterID string, requesterRole user.Role) (order.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return order.Order{}, errors.NotFound("order not found")
		}
		return order.Order{}, errors.Internal("get order", err)
	}

	if o.UserID != requesterID && requesterRole != user.RoleAdmin {
		return order.Order{}, errors.Forbidden("you do not have access to this order")
	}
	return o, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
