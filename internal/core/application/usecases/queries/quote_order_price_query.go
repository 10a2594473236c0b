package queries

import (
	"errors"

	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/pkg/guard"
)

var ErrQuoteOrderPriceQueryIsNotConstructed = errors.New(
	"QuoteOrderPriceQuery must be created via NewQuoteOrderPriceQuery constructor",
)

// QuoteOrderPriceQuery prices a hypothetical weight with the current global rates.
//
// Example:
//
//	query, err := NewQuoteOrderPriceQuery(10)
//	quote, _ := handler.Handle(ctx, query)
//	quote.Breakdown.TotalCents // 2728 with the default rates
type QuoteOrderPriceQuery struct {
	weightLbs int64

	guard guard.ConstructorGuard
}

func NewQuoteOrderPriceQuery(weightLbs int64) (QuoteOrderPriceQuery, error) {
	if err := pricing.ValidateWeight(weightLbs); err != nil {
		return QuoteOrderPriceQuery{}, err
	}
	return QuoteOrderPriceQuery{weightLbs: weightLbs, guard: guard.NewConstructorGuard()}, nil
}

func (q QuoteOrderPriceQuery) Validate() error {
	return q.guard.Validate(ErrQuoteOrderPriceQueryIsNotConstructed)
}

func (q QuoteOrderPriceQuery) WeightLbs() int64 {
	return q.weightLbs
}

// PriceQuote is a breakdown together with the rates that produced it.
type PriceQuote struct {
	Rates     pricing.Rates
	Breakdown pricing.Breakdown
}
