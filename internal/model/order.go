package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order header.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerPhone   string          `json:"customer_phone" db:"customer_phone"`
	CustomerAddress string          `json:"customer_address" db:"customer_address"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem represents a line item in an order. Price is the unit price at
// the time of purchase. ProductID is zero once the product has been deleted.
type OrderItem struct {
	ID          int64           `json:"-" db:"id"`
	OrderID     int64           `json:"-" db:"order_id"`
	ProductID   int64           `json:"product_id,omitempty" db:"product_id"`
	ProductName *string         `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerPhone   string             `json:"customer_phone" validate:"required"`
	CustomerAddress string             `json:"customer_address"`
	TotalAmount     decimal.Decimal    `json:"total_amount" validate:"required,gt=0,money"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"gt=0,max=2147483647"`
	Price     decimal.Decimal `json:"price" validate:"required,gt=0,money"`
}

// OrderCreatedResponse is returned after an order has been committed.
type OrderCreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// OrderStatusRequest is the payload for changing an order's status.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderCreatedEvent is published once an order has been committed.
type OrderCreatedEvent struct {
	OrderID     int64           `json:"order_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}
