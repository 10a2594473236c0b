package queries

import (
	"errors"

	"laundry/internal/pkg/guard"
)

var ErrOrdersSummaryQueryIsNotConstructed = errors.New(
	"OrdersSummaryQuery must be created via NewOrdersSummaryQuery constructor",
)

// OrdersSummaryQuery aggregates the whole order book for the admin dashboard.
type OrdersSummaryQuery struct {
	guard guard.ConstructorGuard
}

func NewOrdersSummaryQuery() OrdersSummaryQuery {
	return OrdersSummaryQuery{guard: guard.NewConstructorGuard()}
}

func (q OrdersSummaryQuery) Validate() error {
	return q.guard.Validate(ErrOrdersSummaryQueryIsNotConstructed)
}

// OrdersSummary counts orders per lifecycle status. Every status is present
// in ByStatus, with zero when no order is in it.
type OrdersSummary struct {
	ByStatus         map[string]int64
	Total            int64
	Paid             int64
	PaidRevenueCents int64
}
