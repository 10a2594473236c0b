package ports

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Listing, filtering and pagination are read-side concerns served by the
// query handlers, not by this repository.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate back if its stored version still equals
	// aggregate.Version(). A lost race returns an error matching
	// errs.ErrVersionIsInvalid and leaves the stored row untouched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Missing orders match errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListAwaitingPayment returns unpaid orders that already have a payment
	// intent, oldest first, at most limit of them.
	ListAwaitingPayment(ctx context.Context, limit int) ([]*order.Order, error)
}
