package service

import (
	"context"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo      repository.ProductRepository
	validator *RequestValidator
	logger    zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, validator *RequestValidator, logger zerolog.Logger) ProductService {
	return &productService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)

	raws, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(raws)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved products")

	return catalog.NormalizeAll(raws), nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	raw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, err
	}

	if raw == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	product := catalog.Normalize(*raw)
	return &product, nil
}

// Create adds a product to the catalog.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	if req.Price == nil {
		return nil, model.NewValidationError("price", "is required")
	}

	raw := &model.RawProduct{Active: true}
	applyProductRequest(raw, req)

	if err := validateImageRef(raw.Image); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, raw); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", raw.ID).Str("name", raw.Name).Msg("product created")
	return s.GetByID(ctx, raw.ID)
}

// Update applies the non-nil fields of req to an existing product.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, model.NewValidationError("name", "is required")
	}

	raw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrProductNotFound
	}

	applyProductRequest(raw, req)

	if req.Image != nil {
		if err := validateImageRef(raw.Image); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, raw); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return s.GetByID(ctx, id)
}

// UpdateImage replaces a product image with a base64 data URI.
func (s *productService) UpdateImage(ctx context.Context, id int64, req *model.ProductImageRequest) (*model.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validateImageDataURI(req.Image); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImage(ctx, id, req.Image); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Int("bytes", len(req.Image)).Msg("product image updated")
	return s.GetByID(ctx, id)
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// applyProductRequest copies the provided fields of req onto raw.
func applyProductRequest(raw *model.RawProduct, req *model.ProductRequest) {
	if req.Name != nil {
		raw.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		raw.Description = *req.Description
	}
	if req.Price != nil {
		raw.Price = *req.Price
	}
	if req.CategoryID != nil {
		id := *req.CategoryID
		raw.CategoryID = &id
	}
	if req.Category != nil {
		category := *req.Category
		raw.Category = &category
	}
	if req.Image != nil {
		raw.Image = *req.Image
	}
	if req.Stock != nil {
		raw.Stock = *req.Stock
	}
	if req.Active != nil {
		raw.Active = *req.Active
	}
	if req.Flavors.Kind != model.VariantsAbsent {
		raw.Flavors = req.Flavors
	}
}
