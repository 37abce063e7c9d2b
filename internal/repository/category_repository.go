package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *categoryRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, WrapError("begin transaction", err)
	}
	return tx, nil
}

// List retrieves all categories with their active product counts.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.created_at,
		       COUNT(p.id) FILTER (WHERE p.active) AS products_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, WrapError("list categories", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.ProductsCount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, WrapError("scan category", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, WrapError("list categories", err)
	}

	return categories, nil
}

// Create inserts a category and fills in its ID and creation time.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.insert(ctx, r.pool, category)
}

// CreateInTx inserts a category within the provided transaction.
func (r *categoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, category *model.Category) error {
	return r.insert(ctx, tx, category)
}

func (r *categoryRepository) insert(ctx context.Context, q Querier, category *model.Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, category.Name, category.Slug, category.Description).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", category.Name).Msg("failed to create category")
		return WrapError("insert category", err)
	}

	r.logger.Debug().Int64("category_id", category.ID).Msg("category created successfully")
	return nil
}

// Count returns the number of stored categories.
func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count categories")
		return 0, WrapError("count categories", err)
	}
	return count, nil
}
