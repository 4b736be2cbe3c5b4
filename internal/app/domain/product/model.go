// Package product defines the catalog entry model.
package product

import "time"

// Product is a single catalog entry. Names are unique across the catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListFilter narrows and pages a catalog listing.
type ListFilter struct {
	Skip     int
	Take     int
	Category string
	MaxPrice *float64
}

// Update carries a partial modification. Nil fields are left unchanged.
type Update struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
}
