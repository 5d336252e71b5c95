package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Summary is the dashboard aggregate: one round trip, no per-table fan-out.
type Summary struct {
	TotalSales     float64 `json:"totalSales"`
	TotalPurchases float64 `json:"totalPurchases"`
	TotalExpenses  float64 `json:"totalExpenses"`
	CashBalance    float64 `json:"cashBalance"`
	ItemCount      int     `json:"itemCount"`
	LowStockCount  int     `json:"lowStockCount"`
}

type DashboardRepo struct {
	pool *pgxpool.Pool
}

func NewDashboardRepo(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) Summary(ctx context.Context) (Summary, error) {
	var s Summary

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM sales WHERE status = 'COMPLETED'),
			(SELECT COALESCE(SUM(total), 0) FROM purchases WHERE status = 'COMPLETED'),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses),
			(SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN amount ELSE -amount END), 0) FROM cash_transactions),
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM items WHERE min_stock > 0 AND stock <= min_stock)
	`).Scan(
		&s.TotalSales,
		&s.TotalPurchases,
		&s.TotalExpenses,
		&s.CashBalance,
		&s.ItemCount,
		&s.LowStockCount,
	)

	return s, err
}
