package auth

import "context"

type ctxKey string

const (
	userIDCtxKey       = ctxKey("userID")
	restaurantIDCtxKey = ctxKey("restaurantID")
	roleCtxKey         = ctxKey("role")
)

// Identity is the authenticated caller attached to a request context.
// It replaces the ambient session globals of the original system: handlers
// and services only ever see an explicit identity.
type Identity struct {
	UserID       uint
	RestaurantID uint // 0 for platform admins
	Role         string
}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, id.UserID)
	ctx = context.WithValue(ctx, restaurantIDCtxKey, id.RestaurantID)
	return context.WithValue(ctx, roleCtxKey, id.Role)
}

// IdentityFromContext extracts the caller identity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	uid, ok := ctx.Value(userIDCtxKey).(uint)
	if !ok || uid == 0 {
		return Identity{}, false
	}
	rid, _ := ctx.Value(restaurantIDCtxKey).(uint)
	role, _ := ctx.Value(roleCtxKey).(string)
	return Identity{UserID: uid, RestaurantID: rid, Role: role}, true
}

// UserIDFromContext extracts just the user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
