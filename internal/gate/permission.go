// Package gate is the authorization checkpoint: role-backed
// "resource:action" permissions with wildcard matching, a cached DB
// resolver, and HTTP middleware for the route table. Tenant isolation is
// enforced here too: a caller may only touch resources of their own
// restaurant.
package gate

import "strings"

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Domain-specific actions beyond plain CRUD.
	ActionVoid    Action = "void"
	ActionPayment Action = "payment"
	ActionManage  Action = "manage"
)

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g., "inventory:create", "order:void").
type Permission string

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], Action(parts[1])
}

// Wildcards for super permissions
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks if this permission matches a requested permission.
// Supports wildcards: "*:*" matches all, "inventory:*" matches all
// inventory actions.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin {
		return true
	}
	if p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	if res == reqRes && string(act) == WildcardAll {
		return true
	}
	return false
}
