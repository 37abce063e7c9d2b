package integration

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the embedded migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, database.PoolSettings{MaxConns: 10, MinConns: 2}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalog holds the ids created by SeedCatalog.
type Catalog struct {
	LiquidsID    int64
	CartridgesID int64
	// ProductIDs are in insertion order: two liquids, one cartridge, one
	// uncategorized product.
	ProductIDs []int64
}

// SeedCatalog inserts a small catalog covering every category shape the
// normalizer handles.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) Catalog {
	t.Helper()

	ctx := context.Background()
	var c Catalog

	err := pool.QueryRow(ctx,
		"INSERT INTO categories (name, slug) VALUES ('Жидкости', 'liquids') RETURNING id",
	).Scan(&c.LiquidsID)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	err = pool.QueryRow(ctx,
		"INSERT INTO categories (name, slug) VALUES ('Картриджи', 'cartridges') RETURNING id",
	).Scan(&c.CartridgesID)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	products := []struct {
		name       string
		price      string
		categoryID *int64
		category   *string
		flavors    *string
	}{
		{"PARADISE Liquid 30ml", "25.00", &c.LiquidsID, nil, strPtr(`{"Mango Ice":15,"Blueberry":12}`)},
		{"Salt 20mg 30ml", "28.00", nil, strPtr("жидкость"), strPtr(`"{\"Apple\":10}"`)},
		{"Картридж (POD) 1.0Ω", "12.00", &c.CartridgesID, nil, nil},
		{"Gift card", "50.00", nil, nil, nil},
	}

	for _, p := range products {
		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO products (name, price, category_id, category, stock, flavors)
			 VALUES ($1, $2::numeric, $3, $4, 10, $5) RETURNING id`,
			p.name, p.price, p.categoryID, p.category, p.flavors,
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.name, err)
		}
		c.ProductIDs = append(c.ProductIDs, id)
	}

	return c
}

// CleanupDB removes all rows and resets identities.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if err := database.Truncate(context.Background(), pool); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// CountRows returns the number of rows in orders and order_items.
func CountRows(t *testing.T, pool *pgxpool.Pool) (orders, items int) {
	t.Helper()

	ctx := context.Background()
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&orders); err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items").Scan(&items); err != nil {
		t.Fatalf("failed to count order items: %v", err)
	}
	return orders, items
}

func strPtr(s string) *string { return &s }
