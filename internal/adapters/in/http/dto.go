package http

import (
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"

	"github.com/oapi-codegen/runtime/types"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NewStaffUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type NewOrderRequest struct {
	PickupAddress       string     `json:"pickup_address"`
	LaundryType         string     `json:"laundry_type"`
	PickupDate          types.Date `json:"pickup_date"`
	SpecialInstructions string     `json:"special_instructions"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type WeightUpdateRequest struct {
	WeightLbs int64 `json:"weight_lbs"`
}

type RegisteredResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func toTokenPairResponse(p commands.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
	}
}

type MeResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

type RatesResponse struct {
	PricePerLbCents  int64 `json:"price_per_lb_cents"`
	ServiceFeeCents  int64 `json:"service_fee_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TaxRateBP        int64 `json:"tax_rate_bp"`
}

func toRatesResponse(r pricing.Rates) RatesResponse {
	return RatesResponse{
		PricePerLbCents:  r.PricePerLbCents,
		ServiceFeeCents:  r.ServiceFeeCents,
		DeliveryFeeCents: r.DeliveryFeeCents,
		TaxRateBP:        r.TaxRateBP,
	}
}

type BreakdownResponse struct {
	WeightLbs     int64 `json:"weight_lbs"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type OrderResponse struct {
	ID                  string         `json:"id"`
	CustomerID          string         `json:"customer_id"`
	DriverID            *string        `json:"driver_id"`
	PickupAddress       string         `json:"pickup_address"`
	LaundryType         string         `json:"laundry_type"`
	PickupDate          types.Date     `json:"pickup_date"`
	SpecialInstructions string         `json:"special_instructions"`
	Status              string         `json:"status"`
	Timeline            order.Timeline `json:"timeline"`
	Rates               RatesResponse  `json:"rates"`
	WeightLbs           *int64         `json:"weight_lbs"`
	SubtotalCents       *int64         `json:"subtotal_cents"`
	TaxCents            *int64         `json:"tax_cents"`
	TotalCents          *int64         `json:"total_cents"`
	IsPaid              bool           `json:"is_paid"`
	PaymentIntentID     *string        `json:"payment_intent_id"`
	CreatedAt           time.Time      `json:"created_at"`
}

func toOrderResponse(v queries.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:                  v.ID.String(),
		CustomerID:          v.CustomerID.String(),
		PickupAddress:       v.PickupAddress,
		LaundryType:         v.LaundryType.String(),
		PickupDate:          types.Date{Time: v.PickupDate},
		SpecialInstructions: v.Instructions,
		Status:              v.Status.String(),
		Timeline:            v.Timeline,
		Rates:               toRatesResponse(v.Rates),
		IsPaid:              v.IsPaid,
		CreatedAt:           v.CreatedAt,
	}
	if v.DriverID != nil {
		id := v.DriverID.String()
		resp.DriverID = &id
	}
	if b := v.Breakdown; b != nil {
		weight, subtotal, tax, total := b.WeightLbs, b.SubtotalCents, b.TaxCents, b.TotalCents
		resp.WeightLbs = &weight
		resp.SubtotalCents = &subtotal
		resp.TaxCents = &tax
		resp.TotalCents = &total
	}
	if v.PaymentIntentID != "" {
		id := v.PaymentIntentID
		resp.PaymentIntentID = &id
	}
	return resp
}

type PageMetaResponse struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Count  int   `json:"count"`
	Total  int64 `json:"total"`
}

type OrderListResponse struct {
	Data []OrderResponse  `json:"data"`
	Meta PageMetaResponse `json:"meta"`
}

func toOrderListResponse(r queries.ListOrdersResult) OrderListResponse {
	data := make([]OrderResponse, len(r.Orders))
	for i, v := range r.Orders {
		data[i] = toOrderResponse(v)
	}
	return OrderListResponse{
		Data: data,
		Meta: PageMetaResponse{
			Limit:  r.Meta.Limit,
			Offset: r.Meta.Offset,
			Count:  r.Meta.Count,
			Total:  r.Meta.Total,
		},
	}
}

type QuoteResponse struct {
	Rates     RatesResponse     `json:"rates"`
	Breakdown BreakdownResponse `json:"breakdown"`
}

func toQuoteResponse(q queries.PriceQuote) QuoteResponse {
	return QuoteResponse{
		Rates: toRatesResponse(q.Rates),
		Breakdown: BreakdownResponse{
			WeightLbs:     q.Breakdown.WeightLbs,
			SubtotalCents: q.Breakdown.SubtotalCents,
			TaxCents:      q.Breakdown.TaxCents,
			TotalCents:    q.Breakdown.TotalCents,
		},
	}
}

type SummaryResponse struct {
	ByStatus         map[string]int64 `json:"by_status"`
	Total            int64            `json:"total"`
	Paid             int64            `json:"paid"`
	PaidRevenueCents int64            `json:"paid_revenue_cents"`
}

type PaymentSessionResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}
