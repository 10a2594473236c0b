package http

import (
	"fmt"
	"io"
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// maxWebhookBody stays below the router-wide body limit so oversized events
// get a 413 from this handler rather than a truncated signature check.
const maxWebhookBody = 512 << 10

// InitiatePayment handles POST /api/v1/orders/:id/pay.
func (s *Server) InitiatePayment(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	cmd, err := commands.NewInitiatePaymentCommand(p.ID, orderID)
	if err != nil {
		return err
	}
	session, err := s.h.InitiatePayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PaymentSessionResponse{
		PaymentIntentID: session.PaymentIntentID,
		ClientSecret:    session.ClientSecret,
		AmountCents:     session.AmountCents,
		Currency:        session.Currency,
	})
}

// StripeWebhook handles POST /api/v1/webhooks/stripe. The raw body is
// passed on untouched because the signature covers its exact bytes.
func (s *Server) StripeWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	if len(payload) > maxWebhookBody {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "webhook payload too large").
			SetInternal(fmt.Errorf("webhook body exceeds %d bytes", maxWebhookBody))
	}

	cmd, err := commands.NewHandlePaymentEventCommand(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	if err = s.h.HandlePaymentEvent.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
