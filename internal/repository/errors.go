package repository

import (
	"context"
	"errors"
	"net"
	"strings"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// WrapError tags a storage failure with the operation that produced it and a
// coarse classification. Nil stays nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pErr *model.PersistenceError
	if errors.As(err, &pErr) {
		return err
	}

	return &model.PersistenceError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) model.PersistenceKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return model.PersistenceConstraint
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P"):
			return model.PersistenceUnavailable
		}
		return model.PersistenceUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.PersistenceUnavailable
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return model.PersistenceUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return model.PersistenceUnavailable
	}

	return model.PersistenceUnknown
}
