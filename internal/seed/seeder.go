package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Result summarises a seeding run.
type Result struct {
	Skipped    bool
	Categories int
	Products   int
}

// Seeder writes a seed document into an empty catalog.
type Seeder struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(categories repository.CategoryRepository, products repository.ProductRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		logger:     logger.With().Str("component", "seeder").Logger(),
	}
}

// Apply inserts every category and product of doc in a single transaction.
// Nothing is written when any category already exists.
func (s *Seeder) Apply(ctx context.Context, doc *Document) (_ Result, err error) {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return Result{}, err
	}
	if count > 0 {
		s.logger.Info().Int("existing_categories", count).Msg("catalog already populated, skipping seed")
		return Result{Skipped: true}, nil
	}

	tx, err := s.categories.BeginTx(ctx)
	if err != nil {
		return Result{}, repository.WrapError("begin seed transaction", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback seed transaction")
			}
		}
	}()

	// slugs and names both resolve to the new id
	ids := make(map[string]int64, len(doc.Categories)*2)
	for _, entry := range doc.Categories {
		category := &model.Category{
			Name:        strings.TrimSpace(entry.Name),
			Description: entry.Description,
		}
		if slug := strings.ToLower(strings.TrimSpace(entry.Slug)); slug != "" {
			category.Slug = &slug
		}

		if err = s.categories.CreateInTx(ctx, tx, category); err != nil {
			return Result{}, err
		}

		ids[category.Name] = category.ID
		if category.Slug != nil {
			ids[*category.Slug] = category.ID
		}
	}

	for _, entry := range doc.Products {
		product := toRawProduct(entry, ids)
		if err = s.products.CreateInTx(ctx, tx, product); err != nil {
			return Result{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Result{}, repository.WrapError("commit seed", err)
	}

	result := Result{Categories: len(doc.Categories), Products: len(doc.Products)}
	s.logger.Info().
		Int("categories", result.Categories).
		Int("products", result.Products).
		Msg("catalog seeded")

	return result, nil
}

func toRawProduct(entry ProductEntry, ids map[string]int64) *model.RawProduct {
	product := &model.RawProduct{
		Name:        strings.TrimSpace(entry.Name),
		Description: entry.Description,
		Price:       entry.Price,
		Image:       entry.Image,
		Stock:       entry.Stock,
		Active:      true,
		Flavors:     entry.Flavors,
	}
	if entry.Active != nil {
		product.Active = *entry.Active
	}

	ref := strings.TrimSpace(entry.Category)
	if ref == "" {
		return product
	}
	if id, ok := ids[ref]; ok {
		product.CategoryID = &id
	} else if id, ok := ids[strings.ToLower(ref)]; ok {
		product.CategoryID = &id
	} else {
		product.Category = &ref
	}
	return product
}

// NewLoader builds the loader chain described by cfg. The returned loader
// always ends at the local file cfg.File.
func NewLoader(ctx context.Context, cfg config.SeedConfig, logger zerolog.Logger) Loader {
	local := NewFileLoader(logger)

	switch {
	case cfg.S3Enabled:
		remote, err := NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			return local
		}
		return NewFallbackLoader(remote, cfg.S3Key, local, logger)
	case cfg.URL != "":
		return NewFallbackLoader(NewHTTPLoader(30*time.Second, logger), cfg.URL, local, logger)
	default:
		logger.Info().Msg("using local file system for seed data")
		return local
	}
}

// Run loads the configured seed and applies it.
func Run(ctx context.Context, cfg config.SeedConfig, seeder *Seeder, logger zerolog.Logger) (Result, error) {
	doc, err := NewLoader(ctx, cfg, logger).Load(ctx, cfg.File)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load seed: %w", err)
	}
	return seeder.Apply(ctx, doc)
}
