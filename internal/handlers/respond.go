// Package handlers exposes the JSON API over the service layer. Each
// handler owns one resource family; tenant scoping comes from the caller
// identity on the request context, never from the payload.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/services"
)

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrConflict):
		httpx.Error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrInvalid):
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", err.Error())
	case errors.Is(err, services.ErrBadCredentials):
		httpx.Error(w, http.StatusUnauthorized, "bad_credentials", nil)
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// pathID parses a numeric path parameter; zero means absent or malformed.
func pathID(r *http.Request, name string) uint {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// parseDate accepts dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// callerRestaurant resolves the tenant for the request. Regular users are
// pinned to their own restaurant; platform admins may address any tenant
// through the restaurant_id query parameter.
func callerRestaurant(r *http.Request) uint {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return 0
	}
	if id.RestaurantID != 0 {
		return id.RestaurantID
	}
	rid, err := strconv.ParseUint(r.URL.Query().Get("restaurant_id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(rid)
}
