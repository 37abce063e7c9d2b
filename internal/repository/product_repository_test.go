package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the storefront schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedCategories inserts the three storefront categories with ids 1..3.
func seedCategories(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO categories (name, slug, description) VALUES
			('Жидкости', 'liquids', 'Жидкости для вейпинга'),
			('Картриджи', 'cartridges', 'Сменные картриджи'),
			('Одноразовые', 'disposable', 'Одноразовые вейпы')
	`)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }
func boolPtr(b bool) *bool    { return &b }

func newRawProduct(name string, categoryID *int64, flavors model.RawVariants) *model.RawProduct {
	return &model.RawProduct{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString("25.00"),
		CategoryID:  categoryID,
		Stock:       10,
		Active:      true,
		Flavors:     flavors,
	}
}

func TestProductRepository_CreateAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedCategories(t, pool)

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name            string
		product         *model.RawProduct
		expectedFlavors model.RawVariants
	}{
		{
			name:            "Object flavors are stored as JSON text",
			product:         newRawProduct("PARADISE Liquid", int64Ptr(1), model.VariantsFromObject(map[string]any{"Mango": 5})),
			expectedFlavors: model.RawVariants{Kind: model.VariantsText, Text: `{"Mango":5}`},
		},
		{
			name:            "Text flavors are stored verbatim",
			product:         newRawProduct("Legacy", int64Ptr(1), model.VariantsFromText(strPtr(`"{\"Cola\":3}"`))),
			expectedFlavors: model.RawVariants{Kind: model.VariantsText, Text: `"{\"Cola\":3}"`},
		},
		{
			name:            "Absent flavors are stored as NULL",
			product:         newRawProduct("Vaporesso Cartridge", int64Ptr(2), model.RawVariants{}),
			expectedFlavors: model.RawVariants{Kind: model.VariantsAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.product)
			require.NoError(t, err)
			assert.NotZero(t, tt.product.ID)
			assert.False(t, tt.product.CreatedAt.IsZero())

			got, err := repo.GetByID(ctx, tt.product.ID)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.product.Name, got.Name)
			assert.True(t, tt.product.Price.Equal(got.Price))
			assert.Equal(t, tt.expectedFlavors, got.Flavors)
			require.NotNil(t, got.CategoryName)
		})
	}
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	product, err := repo.GetByID(context.Background(), 12345)

	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedCategories(t, pool)

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	liquid := newRawProduct("Liquid", int64Ptr(1), model.RawVariants{})
	cartridge := newRawProduct("Cartridge", int64Ptr(2), model.RawVariants{})
	inactive := newRawProduct("Hidden", int64Ptr(1), model.RawVariants{})
	inactive.Active = false
	legacy := newRawProduct("Legacy", nil, model.RawVariants{})
	legacy.Category = strPtr("карики")

	for _, p := range []*model.RawProduct{liquid, cartridge, inactive, legacy} {
		require.NoError(t, repo.Create(ctx, p))
	}

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedNames []string
	}{
		{
			name:          "All products newest first",
			filter:        model.ProductFilter{Limit: 10},
			expectedNames: []string{"Legacy", "Hidden", "Cartridge", "Liquid"},
		},
		{
			name:          "By category",
			filter:        model.ProductFilter{CategoryID: int64Ptr(1), Limit: 10},
			expectedNames: []string{"Hidden", "Liquid"},
		},
		{
			name:          "Active only in category",
			filter:        model.ProductFilter{CategoryID: int64Ptr(1), Active: boolPtr(true), Limit: 10},
			expectedNames: []string{"Liquid"},
		},
		{
			name:          "Pagination",
			filter:        model.ProductFilter{Limit: 2, Offset: 1},
			expectedNames: []string{"Hidden", "Cartridge"},
		},
		{
			name:          "Offset beyond end",
			filter:        model.ProductFilter{Limit: 10, Offset: 100},
			expectedNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, products)

			names := make([]string, len(products))
			for i, p := range products {
				names[i] = p.Name
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}

	t.Run("Legacy free-text category survives", func(t *testing.T) {
		got, err := repo.GetByID(ctx, legacy.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.CategoryID)
		assert.Nil(t, got.CategoryName)
		require.NotNil(t, got.Category)
		assert.Equal(t, "карики", *got.Category)
	})
}

func TestProductRepository_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedCategories(t, pool)

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := newRawProduct("Before", int64Ptr(1), model.RawVariants{})
	require.NoError(t, repo.Create(ctx, product))
	created := product.UpdatedAt

	product.Name = "After"
	product.Price = decimal.RequireFromString("30.50")
	product.CategoryID = int64Ptr(3)
	product.Flavors = model.VariantsFromObject(map[string]any{"Peach": 2})

	require.NoError(t, repo.Update(ctx, product))
	assert.False(t, product.UpdatedAt.Before(created))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, "30.5", got.Price.String())
	assert.Equal(t, "Одноразовые", *got.CategoryName)
	assert.Equal(t, `{"Peach":2}`, got.Flavors.Text)

	t.Run("Missing product", func(t *testing.T) {
		missing := newRawProduct("Ghost", nil, model.RawVariants{})
		missing.ID = 9999
		err := repo.Update(ctx, missing)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestProductRepository_UpdateImageAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := newRawProduct("Imaged", nil, model.RawVariants{})
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.UpdateImage(ctx, product.ID, "data:image/png;base64,AAAA"))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", got.Image)

	assert.ErrorIs(t, repo.UpdateImage(ctx, 9999, "x"), model.ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), model.ErrProductNotFound)

	got, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_CreateConstraintViolation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	// category 42 does not exist
	product := newRawProduct("Orphan", int64Ptr(42), model.RawVariants{})
	err := repo.Create(context.Background(), product)

	require.Error(t, err)
	var pErr *model.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.PersistenceConstraint, pErr.Kind)
	assert.Equal(t, "insert product", pErr.Op)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("List with closed pool", func(t *testing.T) {
		products, err := repo.List(ctx, model.ProductFilter{Limit: 10})
		require.Error(t, err)
		assert.True(t, model.IsPersistence(err))
		assert.Nil(t, products)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 1)
		require.Error(t, err)
		assert.True(t, model.IsPersistence(err))
		assert.Nil(t, product)
	})
}
