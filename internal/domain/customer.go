package domain

import "time"

type Customer struct {
	ID        int64
	Name      string
	Email     string
	Address   *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	// Orders is meaningful only when OrdersLoaded is true; a loaded customer
	// with no orders carries an empty slice, not nil.
	Orders       []Order
	OrdersLoaded bool
}
