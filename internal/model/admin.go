package model

import "time"

// RoleAdmin is the only role the storefront issues tokens for.
const RoleAdmin = "admin"

// LoginRequest is the admin login payload. Username defaults to the
// configured admin username when omitted.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// AdminUser describes the authenticated admin.
type AdminUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is returned after a successful admin login.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AdminUser `json:"user"`
}
