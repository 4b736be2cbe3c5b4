package catalog

import (
	"context"
	"testing"

	"github.com/shopstack/commerce-core/internal/app/domain/order"
	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/storage/memory"
	"github.com/shopstack/commerce-core/internal/errors"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.New()
	return New(store, store, nil), store
}

func TestListPaginationValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		params ListParams
	}{
		{"negative skip", ListParams{Skip: "-1", Take: "10"}},
		{"zero take", ListParams{Skip: "0", Take: "0"}},
		{"negative take", ListParams{Skip: "0", Take: "-5"}},
		{"non-integer skip", ListParams{Skip: "abc", Take: "10"}},
		{"non-integer take", ListParams{Skip: "0", Take: "ten"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.List(ctx, tc.params); !errors.IsCode(err, errors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListDefaultsAndTakeBound(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := store.CreateProduct(ctx, product.Product{Name: name(i), Category: "c", Price: float64(i)}); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	// Absent params default to skip=0, take=10.
	out, err := svc.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("default take: got %d products, want 10", len(out))
	}

	out, err = svc.List(ctx, ListParams{Skip: "0", Take: "10"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) > 10 {
		t.Fatalf("take=10 returned %d products", len(out))
	}
}

func TestListFilters(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	seed := []product.Product{
		{Name: "Hammer", Category: "tools", Price: 12},
		{Name: "Screwdriver", Category: "tools", Price: 6},
		{Name: "Ball", Category: "toys", Price: 4},
	}
	for _, p := range seed {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tools, err := svc.List(ctx, ListParams{Category: "tools"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}

	cheap, err := svc.List(ctx, ListParams{MaxPrice: "6"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cheap) != 2 {
		t.Fatalf("expected 2 products <= 6, got %d", len(cheap))
	}

	if _, err := svc.List(ctx, ListParams{MaxPrice: "not-a-number"}); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateConflictAndValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Product{Name: "Widget", Category: "c", Price: 9.99, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	if _, err := svc.Create(ctx, product.Product{Name: "Widget", Category: "c", Price: 1}); !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	bad := []product.Product{
		{Name: "", Category: "c"},
		{Name: "X", Category: ""},
		{Name: "X", Category: "c", Price: -1},
		{Name: "X", Category: "c", Stock: -1},
	}
	for _, p := range bad {
		if _, err := svc.Create(ctx, p); !errors.IsCode(err, errors.CodeValidation) {
			t.Fatalf("product %+v: expected validation error, got %v", p, err)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Product{Name: "Widget", Description: "small", Category: "c", Price: 9.99, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := 19.99
	updated, err := svc.Update(ctx, created.ID, product.Update{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 19.99 {
		t.Fatalf("price = %v, want 19.99", updated.Price)
	}
	// Omitted fields are unchanged.
	if updated.Name != "Widget" || updated.Description != "small" || updated.Stock != 5 {
		t.Fatalf("unexpected field changes: %+v", updated)
	}
}

func TestUpdateErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "missing", product.Update{}); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	first, _ := svc.Create(ctx, product.Product{Name: "First", Category: "c", Price: 1})
	if _, err := svc.Create(ctx, product.Product{Name: "Second", Category: "c", Price: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	taken := "Second"
	if _, err := svc.Update(ctx, first.ID, product.Update{Name: &taken}); !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, product.Product{Name: "Widget", Category: "c", Price: 9.99})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.CreateOrder(ctx, order.Order{UserID: "u1", ProductIDs: []string{p.ID}, TotalPrice: 9.99}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := store.CreateOrder(ctx, order.Order{UserID: "u2", ProductIDs: []string{p.ID}, TotalPrice: 9.99}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.Delete(ctx, p.ID); !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The product survives the refused deletion.
	if _, err := svc.Get(ctx, p.ID); err != nil {
		t.Fatalf("product should still exist: %v", err)
	}
}

func TestDeleteSuccessAndNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, product.Product{Name: "Orphan", Category: "c", Price: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != p.ID {
		t.Fatalf("deleted id = %s, want %s", deleted.ID, p.ID)
	}

	if _, err := svc.Delete(ctx, p.ID); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func name(i int) string {
	return string(rune('A'+i%26)) + "-product"
}
