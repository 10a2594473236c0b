// Package pricing computes the weight-based price of a laundry order.
// All amounts are integer cents; the tax rate is in basis points
// (1 bp = 0.01%). Calculate is pure and safe for concurrent use.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"laundry/internal/pkg/errs"
)

const basisPointsDenominator = 10_000

// MaxWeightLbs is the heaviest order a single pickup can be priced for.
const MaxWeightLbs = 1_000

// ErrInvalidWeight is returned for a weight outside (0, MaxWeightLbs].
var ErrInvalidWeight = errs.NewValueIsInvalidErrorWithCause("weight",
	fmt.Errorf("weight must be between 1 and %d lbs", MaxWeightLbs))

// ErrAmountOverflow is returned when the rates would push an amount past int64 cents.
var ErrAmountOverflow = errs.NewValueIsOutOfRangeErrorWithCause("amount", "overflow", 0, int64(math.MaxInt64),
	errors.New("price does not fit in int64 cents"))

// ValidateWeight accepts weights in (0, MaxWeightLbs].
func ValidateWeight(weightLbs int64) error {
	if weightLbs <= 0 || weightLbs > MaxWeightLbs {
		return ErrInvalidWeight
	}
	return nil
}

// Rates is the tariff an order is priced with. Orders snapshot the global
// rates at creation so later tariff changes do not reprice them.
type Rates struct {
	PricePerLbCents  int64
	ServiceFeeCents  int64
	DeliveryFeeCents int64
	TaxRateBP        int64
}

// DefaultRates is the tariff used when configuration does not override it.
func DefaultRates() Rates {
	return Rates{
		PricePerLbCents:  175,
		ServiceFeeCents:  300,
		DeliveryFeeCents: 500,
		TaxRateBP:        700,
	}
}

// Validate rejects negative components; a zero fee or rate is allowed.
func (r Rates) Validate() error {
	if r.PricePerLbCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price per lb", fmt.Errorf("%d is negative", r.PricePerLbCents))
	}
	if r.ServiceFeeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("service fee", fmt.Errorf("%d is negative", r.ServiceFeeCents))
	}
	if r.DeliveryFeeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee", fmt.Errorf("%d is negative", r.DeliveryFeeCents))
	}
	if r.TaxRateBP < 0 || r.TaxRateBP > basisPointsDenominator {
		return errs.NewValueIsOutOfRangeError("tax rate bp", r.TaxRateBP, 0, basisPointsDenominator)
	}
	return nil
}

// Breakdown is a computed price. Total always equals Subtotal + Tax.
type Breakdown struct {
	WeightLbs     int64
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Calculate prices weightLbs with the given rates:
//
//	subtotal = weight*pricePerLb + serviceFee + deliveryFee
//	tax      = floor(subtotal * taxRateBP / 10000)
//	total    = subtotal + tax
//
// Example:
//
//	b, _ := pricing.Calculate(10, pricing.DefaultRates())
//	// b.SubtotalCents == 2550, b.TaxCents == 178, b.TotalCents == 2728
func Calculate(weightLbs int64, rates Rates) (Breakdown, error) {
	if err := ValidateWeight(weightLbs); err != nil {
		return Breakdown{}, err
	}
	if err := rates.Validate(); err != nil {
		return Breakdown{}, err
	}

	subtotal, ok := subtotalCents(weightLbs, rates)
	if !ok {
		return Breakdown{}, ErrAmountOverflow
	}
	// tax <= subtotal since TaxRateBP <= 10000, so only the product and the sum can overflow.
	if rates.TaxRateBP > 0 && subtotal > math.MaxInt64/rates.TaxRateBP {
		return Breakdown{}, ErrAmountOverflow
	}
	tax := subtotal * rates.TaxRateBP / basisPointsDenominator
	if subtotal > math.MaxInt64-tax {
		return Breakdown{}, ErrAmountOverflow
	}

	return Breakdown{
		WeightLbs:     weightLbs,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}, nil
}

// subtotalCents reports false when any step leaves the int64 range.
func subtotalCents(weightLbs int64, rates Rates) (int64, bool) {
	if rates.PricePerLbCents > 0 && weightLbs > math.MaxInt64/rates.PricePerLbCents {
		return 0, false
	}
	subtotal := weightLbs * rates.PricePerLbCents
	for _, fee := range []int64{rates.ServiceFeeCents, rates.DeliveryFeeCents} {
		if subtotal > math.MaxInt64-fee {
			return 0, false
		}
		subtotal += fee
	}
	return subtotal, true
}
