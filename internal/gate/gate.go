package gate

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
)

// Sentinel errors returned by authorization checks.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrWrongTenant  = errors.New("resource belongs to another restaurant")
)

// Gate is the central authorization checkpoint backed by a cached grant
// resolver.
type Gate struct {
	Resolver *CachedResolver
}

// New creates a gate over a DB-backed resolver with the given cache TTL.
func New(db *gorm.DB, cacheTTL time.Duration) *Gate {
	return &Gate{Resolver: NewCachedResolver(NewDBResolver(db), cacheTTL)}
}

// Authorize checks that the context's identity holds the permission.
func (g *Gate) Authorize(ctx context.Context, resourceType string, action Action) error {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	grant, err := g.Resolver.Resolve(ctx, id.UserID)
	if err != nil || grant == nil {
		return ErrUnauthorized
	}
	if !grant.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, resourceType string, action Action) bool {
	return g.Authorize(ctx, resourceType, action) == nil
}

// AuthorizeTenant checks permission plus tenant isolation: the resource
// must belong to the caller's restaurant. Platform admins (restaurant 0
// with the superadmin permission) bypass the tenant check.
func (g *Gate) AuthorizeTenant(ctx context.Context, resourceType string, action Action, resource models.Tenanted) error {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	grant, err := g.Resolver.Resolve(ctx, id.UserID)
	if err != nil || grant == nil {
		return ErrUnauthorized
	}
	if grant.HasPermission(PermissionSuperAdmin) {
		return nil
	}
	if !grant.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	if resource.GetRestaurantID() != id.RestaurantID {
		return ErrWrongTenant
	}
	return nil
}

// IsAdmin reports whether the caller holds the superadmin permission.
func (g *Gate) IsAdmin(ctx context.Context) bool {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return false
	}
	grant, err := g.Resolver.Resolve(ctx, id.UserID)
	if err != nil || grant == nil {
		return false
	}
	return grant.HasPermission(PermissionSuperAdmin)
}

// RequirePermission returns middleware that rejects callers without the
// permission.
func (g *Gate) RequirePermission(resourceType string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Authorize(r.Context(), resourceType, action); err != nil {
				httpx.Error(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only passes superadmin callers.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.IsAdmin(r.Context()) {
				httpx.Error(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that passes only callers whose role name
// is one of the given names. Superadmins always pass.
func (g *Gate) RequireRole(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			grant, err := g.Resolver.Resolve(r.Context(), id.UserID)
			if err != nil || grant == nil {
				httpx.Error(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			if grant.HasPermission(PermissionSuperAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			for _, n := range names {
				if grant.RoleName == n {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, http.StatusForbidden, "forbidden", nil)
		})
	}
}
