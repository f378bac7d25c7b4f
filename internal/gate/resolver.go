package gate

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// Grant is the resolved authorization material for one user: their role
// name and the permission set it carries.
type Grant struct {
	RoleName    string
	permissions []Permission
}

// HasPermission checks the grant against a requested permission, honoring
// wildcards.
func (g *Grant) HasPermission(requested Permission) bool {
	if g == nil {
		return false
	}
	for _, p := range g.permissions {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the grant's permission set.
func (g *Grant) Permissions() []Permission {
	out := make([]Permission, len(g.permissions))
	copy(out, g.permissions)
	return out
}

// Resolver resolves a user id to their grant.
type Resolver interface {
	Resolve(ctx context.Context, userID uint) (*Grant, error)
}

// DBResolver fetches the user's role and permissions from the database.
type DBResolver struct {
	DB *gorm.DB
}

func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{DB: db}
}

// Resolve preloads the role with permissions. A user without a role, or an
// inactive user, resolves to nil (no access).
func (r *DBResolver) Resolve(ctx context.Context, userID uint) (*Grant, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role.Permissions").First(&user, userID).Error; err != nil {
		return nil, err
	}
	if user.Role == nil || !user.IsActive {
		return nil, nil
	}
	perms := make([]Permission, 0, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		perms = append(perms, Permission(p.Code()))
	}
	return &Grant{RoleName: user.Role.Name, permissions: perms}, nil
}

// CachedResolver wraps a Resolver with TTL-based caching so authorization
// checks do not hit the database on every request.
type CachedResolver struct {
	inner Resolver
	cache map[uint]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	grant     *Grant
	expiresAt time.Time
}

func NewCachedResolver(inner Resolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[uint]*cacheEntry),
		ttl:   ttl,
	}
}

// Resolve returns the grant for the given user, using the cache when fresh.
func (r *CachedResolver) Resolve(ctx context.Context, userID uint) (*Grant, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.grant, nil
	}

	grant, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[userID] = &cacheEntry{grant: grant, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	return grant, nil
}

// Invalidate removes a user from the cache. Call when a user's role
// assignment changes.
func (r *CachedResolver) Invalidate(userID uint) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache. Call when role permissions are
// modified.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[uint]*cacheEntry)
	r.mu.Unlock()
}
