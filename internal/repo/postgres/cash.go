package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/cashbook"
)

type CashRepo struct {
	pool *pgxpool.Pool
}

func NewCashRepo(pool *pgxpool.Pool) *CashRepo {
	return &CashRepo{pool: pool}
}

func (r *CashRepo) List(ctx context.Context) ([]cashbook.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, description, amount, type, reference, created_at
		 FROM cash_transactions
		 ORDER BY date DESC, id DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]cashbook.Transaction, 0)

	for rows.Next() {
		var t cashbook.Transaction

		err = rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Type, &t.Reference, &t.CreatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *CashRepo) Create(ctx context.Context, req cashbook.CreateTransactionRequest) (cashbook.Transaction, error) {
	now := time.Now().UTC()

	t := cashbook.Transaction{
		Date:        now,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        cashbook.Direction(req.Type),
		Reference:   req.Reference,
		CreatedAt:   now,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO cash_transactions (date, description, amount, type, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.Date, t.Description, t.Amount, t.Type, t.Reference, t.CreatedAt,
	).Scan(&t.ID)

	if err != nil {
		return cashbook.Transaction{}, err
	}

	return t, nil
}

// Balance is the signed sum of all movements: IN adds, OUT subtracts.
func (r *CashRepo) Balance(ctx context.Context) (float64, error) {
	var balance float64

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN amount ELSE -amount END), 0)
		 FROM cash_transactions`,
	).Scan(&balance)

	return balance, err
}
