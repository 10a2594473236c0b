package queries

import (
	"context"

	"laundry/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type OrdersSummaryQueryHandler struct {
	db *gorm.DB
}

func NewOrdersSummaryQueryHandler(db *gorm.DB) OrdersSummaryQueryHandler {
	return OrdersSummaryQueryHandler{db: db}
}

func (h OrdersSummaryQueryHandler) Handle(ctx context.Context, query OrdersSummaryQuery) (OrdersSummary, error) {
	if err := query.Validate(); err != nil {
		return OrdersSummary{}, err
	}

	summary := OrdersSummary{ByStatus: make(map[string]int64, len(order.Lifecycle()))}
	for _, s := range order.Lifecycle() {
		summary.ByStatus[s.String()] = 0
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_paid),
			COALESCE(SUM(total_cents) FILTER (WHERE is_paid), 0)
		FROM orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return OrdersSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, count, paid, revenue int64
		if err = rows.Scan(&status, &count, &paid, &revenue); err != nil {
			return OrdersSummary{}, err
		}

		summary.ByStatus[order.Status(status).String()] += count
		summary.Total += count
		summary.Paid += paid
		summary.PaidRevenueCents += revenue
	}

	if err = rows.Err(); err != nil {
		return OrdersSummary{}, err
	}

	return summary, nil
}
