// Package orderrepo maps order aggregates to the orders table.
package orderrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table. The rates are frozen at
// booking; the breakdown columns stay NULL until the weight is finalized.
type OrderDTO struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID    `gorm:"type:uuid;index;not null"`
	DriverID        *uuid.UUID   `gorm:"type:uuid;index"`
	PickupAddress   string       `gorm:"not null"`
	LaundryType     string       `gorm:"type:varchar(16);not null"`
	PickupDate      time.Time    `gorm:"type:date;index;not null"`
	Instructions    string       `gorm:"type:text;not null;default:''"`
	Status          int          `gorm:"index;not null"`
	Rates           RatesDTO     `gorm:"embedded"`
	Breakdown       BreakdownDTO `gorm:"embedded"`
	IsPaid          bool         `gorm:"not null"`
	PaymentIntentID *string      `gorm:"type:varchar(255);index"`
	Version         int64        `gorm:"not null"`
	CreatedAt       time.Time    `gorm:"not null"`
	UpdatedAt       time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

type RatesDTO struct {
	PricePerLbCents  int64 `gorm:"not null"`
	ServiceFeeCents  int64 `gorm:"not null"`
	DeliveryFeeCents int64 `gorm:"not null"`
	TaxRateBP        int64 `gorm:"column:tax_rate_bp;not null"`
}

// BreakdownDTO holds the finalized price; all columns are NULL together.
type BreakdownDTO struct {
	WeightLbs     *int64
	SubtotalCents *int64
	TaxCents      *int64
	TotalCents    *int64
}

func fromDomain(o *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := o.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var breakdown BreakdownDTO
	if b := o.Breakdown(); b != nil {
		breakdown = BreakdownDTO{
			WeightLbs:     &b.WeightLbs,
			SubtotalCents: &b.SubtotalCents,
			TaxCents:      &b.TaxCents,
			TotalCents:    &b.TotalCents,
		}
	}

	var intentID *string
	if o.HasPaymentIntent() {
		id := o.PaymentIntentID()
		intentID = &id
	}

	rates := o.Rates()
	return OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    o.CustomerID().Bytes(),
		DriverID:      driverID,
		PickupAddress: o.Pickup().Address(),
		LaundryType:   o.Pickup().LaundryType().String(),
		PickupDate:    o.Pickup().Date(),
		Instructions:  o.Pickup().Instructions(),
		Status:        int(o.Status()),
		Rates: RatesDTO{
			PricePerLbCents:  rates.PricePerLbCents,
			ServiceFeeCents:  rates.ServiceFeeCents,
			DeliveryFeeCents: rates.DeliveryFeeCents,
			TaxRateBP:        rates.TaxRateBP,
		},
		Breakdown:       breakdown,
		IsPaid:          o.IsPaid(),
		PaymentIntentID: intentID,
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	laundryType, err := order.ParseLaundryType(dto.LaundryType)
	if err != nil {
		return nil, err
	}

	pickup, err := order.NewPickup(dto.PickupAddress, laundryType, dto.PickupDate, dto.Instructions)
	if err != nil {
		return nil, err
	}

	var breakdown *pricing.Breakdown
	b := dto.Breakdown
	if b.WeightLbs != nil && b.SubtotalCents != nil && b.TaxCents != nil && b.TotalCents != nil {
		breakdown = &pricing.Breakdown{
			WeightLbs:     *b.WeightLbs,
			SubtotalCents: *b.SubtotalCents,
			TaxCents:      *b.TaxCents,
			TotalCents:    *b.TotalCents,
		}
	}

	var intentID string
	if dto.PaymentIntentID != nil {
		intentID = *dto.PaymentIntentID
	}

	return order.RestoreOrder(order.State{
		ID:         id,
		CustomerID: customerID,
		DriverID:   driverID,
		Pickup:     pickup,
		Status:     order.Status(dto.Status),
		Rates: pricing.Rates{
			PricePerLbCents:  dto.Rates.PricePerLbCents,
			ServiceFeeCents:  dto.Rates.ServiceFeeCents,
			DeliveryFeeCents: dto.Rates.DeliveryFeeCents,
			TaxRateBP:        dto.Rates.TaxRateBP,
		},
		Breakdown:       breakdown,
		IsPaid:          dto.IsPaid,
		PaymentIntentID: intentID,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
	})
}
