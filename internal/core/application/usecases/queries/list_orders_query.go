package queries

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows a listing. Nil fields do not constrain.
// CustomerID and DriverID are honored for admins only.
type OrderFilter struct {
	Status     *order.Status
	CustomerID *kernel.UUID
	DriverID   *kernel.UUID
}

// NewOrderFilter parses the textual filter parameters; empty strings are absent.
func NewOrderFilter(status, customerID, driverID string) (OrderFilter, error) {
	var (
		filter OrderFilter
		errs   []error
	)

	if status = strings.TrimSpace(status); status != "" {
		s, err := order.ParseStatus(status)
		if err != nil {
			errs = append(errs, err)
		} else {
			filter.Status = &s
		}
	}
	if customerID = strings.TrimSpace(customerID); customerID != "" {
		id, err := kernel.UUIDFromString(customerID)
		if err != nil {
			errs = append(errs, err)
		} else {
			filter.CustomerID = &id
		}
	}
	if driverID = strings.TrimSpace(driverID); driverID != "" {
		id, err := kernel.UUIDFromString(driverID)
		if err != nil {
			errs = append(errs, err)
		} else {
			filter.DriverID = &id
		}
	}

	if len(errs) > 0 {
		return OrderFilter{}, errors.Join(errs...)
	}
	return filter, nil
}

// ListOrdersQuery pages through the orders visible to viewer: a customer's
// own bookings, a driver's assignments, or every order for an admin.
//
// Example:
//
//	limit := 10
//	filter, _ := NewOrderFilter("in_cleaning", "", "")
//	query, err := NewListOrdersQuery(principal, filter, NewPage(&limit, nil))
//	result, err := handler.Handle(ctx, query)
//	fmt.Println(result.Meta.Total)
type ListOrdersQuery struct {
	viewer Principal
	filter OrderFilter
	page   Page

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(viewer Principal, filter OrderFilter, page Page) (ListOrdersQuery, error) {
	if err := viewer.ID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if err := viewer.Role.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}

	if viewer.Role != user.RoleAdmin {
		filter.CustomerID = nil
		filter.DriverID = nil
	}

	return ListOrdersQuery{
		viewer: viewer,
		filter: filter,
		page:   NewPage(&page.Limit, &page.Offset),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Viewer() Principal {
	return q.viewer
}

func (q ListOrdersQuery) Filter() OrderFilter {
	return q.filter
}

func (q ListOrdersQuery) Page() Page {
	return q.page
}

// ListOrdersResult is one page of orders plus its window.
type ListOrdersResult struct {
	Orders []OrderView
	Meta   PageMeta
}
