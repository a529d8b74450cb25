package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrFrameNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrDebtNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotGroupMember):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrCategoryDead),
		errors.Is(err, domain.ErrTransactionDead),
		errors.Is(err, domain.ErrNotOverspent),
		errors.Is(err, domain.ErrSplitAmountImmutable),
		errors.Is(err, domain.ErrNotSplit),
		errors.Is(err, domain.ErrNotInViewedFrame):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidShare),
		errors.Is(err, domain.ErrInvalidPayer),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidCategoryName),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrSelfDebt),
		errors.Is(err, domain.ErrFutureFrame),
		errors.Is(err, domain.ErrDateOutsideFrame),
		errors.Is(err, domain.ErrCategoryFrameMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// authorizedForGroup reports whether the request may act on the group.
// Requests without an authenticated user pass; the auth middleware decides
// whether anonymous requests reach the handlers at all.
func authorizedForGroup(r *http.Request, groupID string) bool {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return true
	}
	return user.GroupID == groupID
}

// requestUser returns the authenticated user, or nil.
func requestUser(r *http.Request) *domain.User {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return nil
	}
	return user
}

// parseFrameIndex parses a frame index path segment.
func parseFrameIndex(s string) (domain.FrameIndex, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return domain.FrameIndex(i), nil
}
