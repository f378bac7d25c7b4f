package models

// Tenanted is implemented by every entity partitioned by restaurant.
// The gate uses it to enforce tenant isolation on resource access.
type Tenanted interface {
	GetRestaurantID() uint
}
