package service

import (
	"context"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	repo      repository.CategoryRepository
	validator *RequestValidator
	logger    zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, validator *RequestValidator, logger zerolog.Logger) CategoryService {
	return &categoryService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "is required")
	}

	category := &model.Category{
		Name:        name,
		Description: req.Description,
	}
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		category.Slug = &slug
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}
