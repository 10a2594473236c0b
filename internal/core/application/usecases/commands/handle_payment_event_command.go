package commands

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrHandlePaymentEventCommandIsNotConstructed = errors.New(
	"HandlePaymentEventCommand must be created via NewHandlePaymentEventCommand constructor",
)

// HandlePaymentEventCommand carries a raw payment-processor webhook delivery.
type HandlePaymentEventCommand struct {
	payload   []byte
	signature string

	guard guard.ConstructorGuard
}

func NewHandlePaymentEventCommand(payload []byte, signature string) (HandlePaymentEventCommand, error) {
	var errList []error
	if len(payload) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("payload"))
	}
	if signature == "" {
		errList = append(errList, errs.NewValueIsRequiredError("signature"))
	}
	if err := errors.Join(errList...); err != nil {
		return HandlePaymentEventCommand{}, err
	}

	return HandlePaymentEventCommand{
		payload:   payload,
		signature: signature,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c HandlePaymentEventCommand) Validate() error {
	return c.guard.Validate(ErrHandlePaymentEventCommandIsNotConstructed)
}

func (c HandlePaymentEventCommand) Payload() []byte {
	return c.payload
}

func (c HandlePaymentEventCommand) Signature() string {
	return c.signature
}
