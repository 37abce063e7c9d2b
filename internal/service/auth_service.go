package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// adminClaims are the claims carried by admin tokens.
type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// authService implements AuthService for a single configured admin.
type authService struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	validator    *RequestValidator
	now          func() time.Time
	logger       zerolog.Logger
}

// NewAuthService creates an auth service. When only a plain password is
// configured it is hashed once here.
func NewAuthService(cfg config.AuthConfig, validator *RequestValidator, logger zerolog.Logger) (AuthService, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if cfg.AdminPassword == "" {
			return nil, errors.New("admin password or password hash is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &authService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		secret:       []byte(cfg.JWTSecret),
		ttl:          ttl,
		validator:    validator,
		now:          time.Now,
		logger:       logger.With().Str("service", "auth").Logger(),
	}, nil
}

// Login checks the admin credential and issues a signed token.
func (s *authService) Login(_ context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	username := req.Username
	if username == "" {
		username = s.username
	}

	// bcrypt runs even for a wrong username to keep timing uniform
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warn().Str("username", username).Msg("admin login failed")
		return nil, model.ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := adminClaims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign admin token")
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("username", username).Time("expires_at", expiresAt).Msg("admin logged in")

	return &model.LoginResponse{
		Success:   true,
		Token:     signed,
		ExpiresAt: expiresAt.UTC(),
		User: model.AdminUser{
			Username: username,
			Role:     model.RoleAdmin,
		},
	}, nil
}

// ValidateToken verifies a token issued by Login.
func (s *authService) ValidateToken(token string) (*model.AdminUser, error) {
	claims := &adminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, model.ErrUnauthorised
	}

	if claims.Role != model.RoleAdmin || claims.Subject != s.username {
		return nil, model.ErrUnauthorised
	}

	return &model.AdminUser{Username: claims.Subject, Role: claims.Role}, nil
}
