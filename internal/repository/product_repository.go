package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
	p.id, p.name, p.description, p.price, p.category_id, c.name, p.category,
	p.image, p.stock, p.active, p.flavors, p.created_at, p.updated_at
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves products matching the filter, newest first.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.RawProduct, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("p.active = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query products")
		return nil, WrapError("list products", err)
	}
	defer rows.Close()

	products := []model.RawProduct{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, WrapError("scan product", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, WrapError("list products", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.RawProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, WrapError("get product", err)
	}

	return &p, nil
}

// Create inserts a product and fills in its ID and timestamps.
func (r *productRepository) Create(ctx context.Context, product *model.RawProduct) error {
	return r.insert(ctx, r.pool, product)
}

// CreateInTx inserts a product within the provided transaction.
func (r *productRepository) CreateInTx(ctx context.Context, tx pgx.Tx, product *model.RawProduct) error {
	return r.insert(ctx, tx, product)
}

func (r *productRepository) insert(ctx context.Context, q Querier, product *model.RawProduct) error {
	flavors, err := flavorsColumn(product.Flavors)
	if err != nil {
		return WrapError("encode flavors", err)
	}

	query := `
		INSERT INTO products (name, description, price, category_id, category, image, stock, active, flavors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Category,
		product.Image,
		product.Stock,
		product.Active,
		flavors,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return WrapError("insert product", err)
	}

	r.logger.Debug().Int64("product_id", product.ID).Msg("product created successfully")
	return nil
}

// Update overwrites every mutable column of an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.RawProduct) error {
	flavors, err := flavorsColumn(product.Flavors)
	if err != nil {
		return WrapError("encode flavors", err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, category = $6,
		    image = $7, stock = $8, active = $9, flavors = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Category,
		product.Image,
		product.Stock,
		product.Active,
		flavors,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return WrapError("update product", err)
	}

	return nil
}

// UpdateImage replaces only the product image.
func (r *productRepository) UpdateImage(ctx context.Context, id int64, image string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE products SET image = $2, updated_at = NOW() WHERE id = $1", id, image)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product image")
		return WrapError("update product image", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return WrapError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Int64("product_id", id).Msg("product deleted")
	return nil
}

func scanProduct(row pgx.Row) (model.RawProduct, error) {
	var (
		p       model.RawProduct
		flavors *string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.CategoryName,
		&p.Category,
		&p.Image,
		&p.Stock,
		&p.Active,
		&flavors,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.RawProduct{}, err
	}
	p.Flavors = model.VariantsFromText(flavors)
	return p, nil
}

// flavorsColumn renders raw flavors for the text column. Text is stored as
// received so that the normalizer sees legacy encodings unchanged.
func flavorsColumn(v model.RawVariants) (*string, error) {
	switch v.Kind {
	case model.VariantsText:
		s := v.Text
		return &s, nil
	case model.VariantsObject:
		data, err := json.Marshal(v.Object)
		if err != nil {
			return nil, err
		}
		s := string(data)
		return &s, nil
	default:
		return nil, nil
	}
}
