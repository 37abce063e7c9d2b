package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies. Product images travel inline as data
// URIs, so this sits above the 5 MB image limit.
const maxBodyBytes = 8 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent; an encode failure means the client went away
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger zerolog.Logger) {
	requestID := middleware.GetRequestID(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Str("request_id", requestID).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{Error: message, CorrelationID: requestID})
}

// respondError maps a service error onto an HTTP status. Storage details are
// logged but never returned; fallback is the client-facing message for
// unexpected failures.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string, logger zerolog.Logger) {
	var (
		vErr *model.ValidationError
		dErr *model.DomainError
		pErr *model.PersistenceError
	)

	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusBadRequest, vErr.Error(), logger)
	case errors.As(err, &dErr):
		writeError(w, r, domainStatus(dErr), dErr.Message, logger)
	case errors.As(err, &pErr):
		logger.Error().
			Err(pErr.Err).
			Str("op", pErr.Op).
			Str("kind", string(pErr.Kind)).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("persistence failure")
		writeError(w, r, http.StatusInternalServerError, fallback, logger)
	default:
		logger.Error().Err(err).Str("request_id", middleware.GetRequestID(r.Context())).Msg("unexpected failure")
		writeError(w, r, http.StatusInternalServerError, fallback, logger)
	}
}

func domainStatus(err *model.DomainError) int {
	switch err.Code {
	case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound, model.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidLogin, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a JSON body into dst. The returned error is a
// *model.ValidationError suitable for respondError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return model.NewValidationError("", "request body is required")
		case errors.As(err, &maxErr):
			return model.NewValidationError("", "request body is too large")
		default:
			return model.NewValidationError("", "invalid request body")
		}
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}
