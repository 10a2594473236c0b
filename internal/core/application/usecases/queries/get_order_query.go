package queries

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of viewer. Customers see their
// own orders, drivers the orders assigned to them and admins every order;
// anything else is reported as not found.
type GetOrderQuery struct {
	viewer  Principal
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(viewer Principal, orderID string) (GetOrderQuery, error) {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return GetOrderQuery{}, err
	}
	if err = viewer.ID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		viewer:  viewer,
		orderID: id,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Viewer() Principal {
	return q.viewer
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
