package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/pkg/guard"
)

var ErrFinalizeOrderPricingCommandIsNotConstructed = errors.New(
	"FinalizeOrderPricingCommand must be created via NewFinalizeOrderPricingCommand constructor",
)

// FinalizeOrderPricingCommand records the measured weight of an order.
type FinalizeOrderPricingCommand struct {
	orderID   kernel.UUID
	weightLbs int64

	guard guard.ConstructorGuard
}

func NewFinalizeOrderPricingCommand(orderID kernel.UUID, weightLbs int64) (FinalizeOrderPricingCommand, error) {
	if err := errors.Join(orderID.Validate(), pricing.ValidateWeight(weightLbs)); err != nil {
		return FinalizeOrderPricingCommand{}, err
	}

	return FinalizeOrderPricingCommand{
		orderID:   orderID,
		weightLbs: weightLbs,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c FinalizeOrderPricingCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeOrderPricingCommandIsNotConstructed)
}

func (c FinalizeOrderPricingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c FinalizeOrderPricingCommand) WeightLbs() int64 {
	return c.weightLbs
}
