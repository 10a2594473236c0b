package queries

import (
	"database/sql"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"

	"github.com/google/uuid"
)

// OrderView is the read model of an order shared by every listing and by
// the responses of order commands.
type OrderView struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	DriverID        *kernel.UUID
	PickupAddress   string
	LaundryType     order.LaundryType
	PickupDate      time.Time
	Instructions    string
	Status          order.Status
	Timeline        order.Timeline
	Rates           pricing.Rates
	Breakdown       *pricing.Breakdown
	IsPaid          bool
	PaymentIntentID string
	CreatedAt       time.Time
}

// OrderViewFromDomain renders an aggregate returned by a command.
func OrderViewFromDomain(o *order.Order) OrderView {
	return OrderView{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		DriverID:        o.Driver(),
		PickupAddress:   o.Pickup().Address(),
		LaundryType:     o.Pickup().LaundryType(),
		PickupDate:      o.Pickup().Date(),
		Instructions:    o.Pickup().Instructions(),
		Status:          o.Status(),
		Timeline:        o.Status().Timeline(),
		Rates:           o.Rates(),
		Breakdown:       o.Breakdown(),
		IsPaid:          o.IsPaid(),
		PaymentIntentID: o.PaymentIntentID(),
		CreatedAt:       o.CreatedAt(),
	}
}

// orderColumns is the projection scanned into orderRow.
const orderColumns = `
	id,
	customer_id,
	driver_id,
	pickup_address,
	laundry_type,
	pickup_date,
	instructions,
	status,
	price_per_lb_cents,
	service_fee_cents,
	delivery_fee_cents,
	tax_rate_bp,
	weight_lbs,
	subtotal_cents,
	tax_cents,
	total_cents,
	is_paid,
	payment_intent_id,
	created_at`

type orderRow struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	DriverID         *uuid.UUID
	PickupAddress    string
	LaundryType      string
	PickupDate       time.Time
	Instructions     string
	Status           int
	PricePerLbCents  int64
	ServiceFeeCents  int64
	DeliveryFeeCents int64
	TaxRateBP        int64
	WeightLbs        *int64
	SubtotalCents    *int64
	TaxCents         *int64
	TotalCents       *int64
	IsPaid           bool
	PaymentIntentID  *string
	CreatedAt        time.Time
}

func scanOrderRow(rows *sql.Rows) (orderRow, error) {
	var r orderRow
	err := rows.Scan(
		&r.ID,
		&r.CustomerID,
		&r.DriverID,
		&r.PickupAddress,
		&r.LaundryType,
		&r.PickupDate,
		&r.Instructions,
		&r.Status,
		&r.PricePerLbCents,
		&r.ServiceFeeCents,
		&r.DeliveryFeeCents,
		&r.TaxRateBP,
		&r.WeightLbs,
		&r.SubtotalCents,
		&r.TaxCents,
		&r.TotalCents,
		&r.IsPaid,
		&r.PaymentIntentID,
		&r.CreatedAt,
	)
	return r, err
}

func scanOrderViews(rows *sql.Rows) ([]OrderView, error) {
	views := make([]OrderView, 0)
	for rows.Next() {
		row, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		view, err := row.toView()
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func (r orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}

	customerID, err := kernel.UUIDFromBytes(r.CustomerID[:])
	if err != nil {
		return OrderView{}, err
	}

	var driverID *kernel.UUID
	if r.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*r.DriverID)[:])
		if driverErr != nil {
			return OrderView{}, driverErr
		}
		driverID = &dID
	}

	var breakdown *pricing.Breakdown
	if r.WeightLbs != nil && r.SubtotalCents != nil && r.TaxCents != nil && r.TotalCents != nil {
		breakdown = &pricing.Breakdown{
			WeightLbs:     *r.WeightLbs,
			SubtotalCents: *r.SubtotalCents,
			TaxCents:      *r.TaxCents,
			TotalCents:    *r.TotalCents,
		}
	}

	var intentID string
	if r.PaymentIntentID != nil {
		intentID = *r.PaymentIntentID
	}

	status := order.Status(r.Status)
	return OrderView{
		ID:            id,
		CustomerID:    customerID,
		DriverID:      driverID,
		PickupAddress: r.PickupAddress,
		LaundryType:   order.LaundryType(r.LaundryType),
		PickupDate:    r.PickupDate,
		Instructions:  r.Instructions,
		Status:        status,
		Timeline:      status.Timeline(),
		Rates: pricing.Rates{
			PricePerLbCents:  r.PricePerLbCents,
			ServiceFeeCents:  r.ServiceFeeCents,
			DeliveryFeeCents: r.DeliveryFeeCents,
			TaxRateBP:        r.TaxRateBP,
		},
		Breakdown:       breakdown,
		IsPaid:          r.IsPaid,
		PaymentIntentID: intentID,
		CreatedAt:       r.CreatedAt,
	}, nil
}
