// Package order defines the purchase model.
package order

import (
	"time"

	"github.com/shopstack/commerce-core/internal/app/domain/product"
)

// Order is a purchase of one or more catalog products by a user. Products
// carries the resolved associations when the store loaded them.
type Order struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	ProductIDs []string          `json:"productIds"`
	Products   []product.Product `json:"products,omitempty"`
	TotalPrice float64           `json:"totalPrice"`
	CreatedAt  time.Time         `json:"createdAt"`
}
