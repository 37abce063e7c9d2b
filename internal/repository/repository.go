package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository defines the interface for product data access operations.
// Rows are returned raw; shaping them for clients is the catalog's job.
type ProductRepository interface {
	// List retrieves products matching the filter, newest first.
	List(ctx context.Context, filter model.ProductFilter) ([]model.RawProduct, error)

	// GetByID retrieves a single product by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.RawProduct, error)

	// Create inserts a product and fills in its ID and timestamps.
	Create(ctx context.Context, product *model.RawProduct) error

	// CreateInTx inserts a product within the provided transaction.
	CreateInTx(ctx context.Context, tx pgx.Tx, product *model.RawProduct) error

	// Update overwrites every mutable column of an existing product.
	Update(ctx context.Context, product *model.RawProduct) error

	// UpdateImage replaces only the product image.
	UpdateImage(ctx context.Context, id int64, image string) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// List retrieves all categories with their active product counts.
	List(ctx context.Context) ([]model.Category, error)

	// Create inserts a category and fills in its ID and creation time.
	Create(ctx context.Context, category *model.Category) error

	// CreateInTx inserts a category within the provided transaction.
	CreateInTx(ctx context.Context, tx pgx.Tx, category *model.Category) error

	// Count returns the number of stored categories.
	Count(ctx context.Context) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts an order header within the provided transaction and
	// sets the generated ID, status and creation time on order.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns nil
	// when missing.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List retrieves orders newest first, each with its items.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// UpdateStatus changes the status of an existing order.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
}
