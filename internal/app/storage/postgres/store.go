// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopstack/commerce-core/internal/app/domain/order"
	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/app/storage"
)

// Store implements the storage interfaces using the provided database handle.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// translate maps driver-level failures onto the shared storage sentinels so
// constraint violations never leak as raw pq errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", storage.ErrForeignKey, pqErr.Constraint)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, translate(err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email))
}

func (s *Store) scanUser(row *sql.Row) (user.User, error) {
	var (
		u    user.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.User{}, translate(err)
	}
	u.Role = user.Role(role)
	return u, nil
}

// --- ProductStore -----------------------------------------------------------

func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, category, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return product.Product{}, translate(err)
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	p.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, stock = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.UpdatedAt)
	if err != nil {
		return product.Product{}, translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return product.Product{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (product.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)

	var p product.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return product.Product{}, translate(err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	query := `
		SELECT id, name, description, price, category, stock, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2::float8 IS NULL OR price <= $2)
		ORDER BY created_at, id
		OFFSET $3 LIMIT $4
	`
	var maxPrice sql.NullFloat64
	if filter.MaxPrice != nil {
		maxPrice = sql.NullFloat64{Float64: *filter.MaxPrice, Valid: true}
	}

	rows, err := s.db.QueryContext(ctx, query, filter.Category, maxPrice, filter.Skip, filter.Take)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]product.Product, 0)
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- OrderStore -------------------------------------------------------------

// CreateOrder inserts the order and its product associations in a single
// transaction so a partially linked order can never persist.
func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return order.Order{}, translate(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_price, created_at)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.UserID, o.TotalPrice, o.CreatedAt)
	if err != nil {
		return order.Order{}, translate(err)
	}

	for _, pid := range o.ProductIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, product_id)
			VALUES ($1, $2)
		`, o.ID, pid); err != nil {
			return order.Order{}, translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return order.Order{}, translate(err)
	}

	o.Products, err = s.loadOrderProducts(ctx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, created_at
		FROM orders
		WHERE id = $1
	`, id)

	var o order.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.CreatedAt); err != nil {
		return order.Order{}, translate(err)
	}
	return s.attachProducts(ctx, o)
}

func (s *Store) ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, total_price, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]order.Order, 0)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.CreatedAt); err != nil {
			return nil, translate(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	for i := range out {
		out[i], err = s.attachProducts(ctx, out[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) CountOrdersForProduct(ctx context.Context, productID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT order_id)
		FROM order_products
		WHERE product_id = $1
	`, productID).Scan(&count)
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (s *Store) attachProducts(ctx context.Context, o order.Order) (order.Order, error) {
	products, err := s.loadOrderProducts(ctx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	o.Products = products
	o.ProductIDs = make([]string, 0, len(products))
	for _, p := range products {
		o.ProductIDs = append(o.ProductIDs, p.ID)
	}
	return o, nil
}

func (s *Store) loadOrderProducts(ctx context.Context, orderID string) ([]product.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.category, p.stock, p.created_at, p.updated_at
		FROM products p
		JOIN order_products op ON op.product_id = p.id
		WHERE op.order_id = $1
		ORDER BY p.created_at, p.id
	`, orderID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]product.Product, 0)
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
