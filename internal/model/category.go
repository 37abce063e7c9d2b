package model

import "time"

// Category is a product category as stored.
type Category struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          *string   `json:"slug" db:"slug"`
	Description   string    `json:"description" db:"description"`
	ProductsCount int       `json:"products_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=100"`
	Description string  `json:"description"`
}

// CreatedResponse is returned by create endpoints that only echo the new id.
type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
