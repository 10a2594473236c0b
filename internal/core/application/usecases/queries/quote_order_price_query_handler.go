package queries

import (
	"context"

	"laundry/internal/core/domain/model/pricing"
)

// QuoteOrderPriceQueryHandler needs no storage: quotes always use the
// rates configured at startup.
type QuoteOrderPriceQueryHandler struct {
	rates pricing.Rates
}

func NewQuoteOrderPriceQueryHandler(rates pricing.Rates) QuoteOrderPriceQueryHandler {
	return QuoteOrderPriceQueryHandler{rates: rates}
}

func (h QuoteOrderPriceQueryHandler) Handle(_ context.Context, query QuoteOrderPriceQuery) (PriceQuote, error) {
	if err := query.Validate(); err != nil {
		return PriceQuote{}, err
	}

	breakdown, err := pricing.Calculate(query.WeightLbs(), h.rates)
	if err != nil {
		return PriceQuote{}, err
	}

	return PriceQuote{Rates: h.rates, Breakdown: breakdown}, nil
}
