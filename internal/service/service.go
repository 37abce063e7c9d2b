package service

import (
	"context"

	"storefront/internal/model"
)

// ProductService defines operations for catalog management. Every product it
// returns has been normalized.
type ProductService interface {
	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create adds a product to the catalog.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update applies the non-nil fields of req to an existing product.
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// UpdateImage replaces a product image with a base64 data URI.
	UpdateImage(ctx context.Context, id int64, req *model.ProductImageRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// CategoryService defines operations for category management.
type CategoryService interface {
	// List retrieves all categories with active product counts.
	List(ctx context.Context) ([]model.Category, error)

	// Create adds a category.
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// SubmitOrder validates and stores an order with all of its items
	// atomically. Either everything is committed or nothing is.
	SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List retrieves orders newest first.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
}

// AuthService authenticates the storefront administrator.
type AuthService interface {
	// Login checks the admin credential and issues a signed token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// ValidateToken verifies a token issued by Login.
	ValidateToken(token string) (*model.AdminUser, error)
}
