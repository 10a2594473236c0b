package queries

import (
	"context"

	"laundry/internal/core/domain/model/user"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler serves the paginated order listings. Rows are
// ordered by pickup date, newest first, with creation time as tie-breaker.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersResult, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersResult{}, err
	}

	tx := visibleTo(h.db.WithContext(ctx).Table("orders"), query.Viewer())
	tx = filtered(tx, query.Filter())
	base := tx.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListOrdersResult{}, err
	}

	page := query.Page()
	rows, err := base.
		Select(orderColumns).
		Order("pickup_date DESC, created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Rows()
	if err != nil {
		return ListOrdersResult{}, err
	}
	defer rows.Close()

	views, err := scanOrderViews(rows)
	if err != nil {
		return ListOrdersResult{}, err
	}

	return ListOrdersResult{
		Orders: views,
		Meta: PageMeta{
			Limit:  page.Limit,
			Offset: page.Offset,
			Count:  len(views),
			Total:  total,
		},
	}, nil
}

// visibleTo restricts tx to the orders viewer may read.
func visibleTo(tx *gorm.DB, viewer Principal) *gorm.DB {
	switch viewer.Role {
	case user.RoleAdmin:
		return tx
	case user.RoleDriver:
		return tx.Where("driver_id = ?", viewer.ID.Bytes())
	case user.RoleCustomer:
		return tx.Where("customer_id = ?", viewer.ID.Bytes())
	default:
		return tx.Where("1 = 0")
	}
}

func filtered(tx *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.Status != nil {
		tx = tx.Where("status = ?", int(*filter.Status))
	}
	if filter.CustomerID != nil {
		tx = tx.Where("customer_id = ?", filter.CustomerID.Bytes())
	}
	if filter.DriverID != nil {
		tx = tx.Where("driver_id = ?", filter.DriverID.Bytes())
	}
	return tx
}
