package http

import (
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req NewOrderRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(
		p.ID,
		req.PickupAddress,
		req.LaundryType,
		req.PickupDate.Time,
		req.SpecialInstructions,
	)
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(queries.OrderViewFromDomain(o)))
}

// ListMyOrders handles GET /api/v1/orders/my.
func (s *Server) ListMyOrders(c echo.Context) error {
	return s.listOrders(c, "", "")
}

// ListAssignedOrders handles GET /api/v1/orders/assigned.
func (s *Server) ListAssignedOrders(c echo.Context) error {
	return s.listOrders(c, "", "")
}

// ListAllOrders handles GET /api/v1/admin/orders.
func (s *Server) ListAllOrders(c echo.Context) error {
	return s.listOrders(c, c.QueryParam("customer_id"), c.QueryParam("driver_id"))
}

// listOrders scopes the listing to the caller; the query drops the
// customer and driver filters for everyone but admins.
func (s *Server) listOrders(c echo.Context, customerID, driverID string) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	filter, err := queries.NewOrderFilter(c.QueryParam("status"), customerID, driverID)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(p, filter, page)
	if err != nil {
		return err
	}
	result, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(result))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(p, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// QuoteOrder handles GET /api/v1/orders/quote?weight_lbs=.
func (s *Server) QuoteOrder(c echo.Context) error {
	var weight int64
	if err := runtime.BindQueryParameter("form", true, true, "weight_lbs", c.QueryParams(), &weight); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("weight_lbs", err)
	}

	query, err := queries.NewQuoteOrderPriceQuery(weight)
	if err != nil {
		return err
	}
	quote, err := s.h.QuotePrice.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// AssignDriver handles PATCH /api/v1/orders/:id/assign.
func (s *Server) AssignDriver(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}
	var req AssignDriverRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID)
	if err != nil {
		return err
	}
	o, err := s.h.AssignDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(queries.OrderViewFromDomain(o)))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}
	var req StatusUpdateRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(p.ID, orderID, req.Status)
	if err != nil {
		return err
	}
	o, err := s.h.UpdateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(queries.OrderViewFromDomain(o)))
}

// FinalizeOrderPricing handles PATCH /api/v1/orders/:id/weight.
func (s *Server) FinalizeOrderPricing(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}
	var req WeightUpdateRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewFinalizeOrderPricingCommand(orderID, req.WeightLbs)
	if err != nil {
		return err
	}
	o, err := s.h.FinalizePricing.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(queries.OrderViewFromDomain(o)))
}

// OrdersSummary handles GET /api/v1/admin/orders/summary.
func (s *Server) OrdersSummary(c echo.Context) error {
	summary, err := s.h.OrdersSummary.Handle(c.Request().Context(), queries.NewOrdersSummaryQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SummaryResponse{
		ByStatus:         summary.ByStatus,
		Total:            summary.Total,
		Paid:             summary.Paid,
		PaidRevenueCents: summary.PaidRevenueCents,
	})
}

func pageFrom(c echo.Context) (queries.Page, error) {
	var limit, offset *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return queries.Page{}, errs.NewValueIsInvalidErrorWithCause("limit", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", c.QueryParams(), &offset); err != nil {
		return queries.Page{}, errs.NewValueIsInvalidErrorWithCause("offset", err)
	}
	return queries.NewPage(limit, offset), nil
}
