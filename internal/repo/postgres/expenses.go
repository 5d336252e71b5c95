package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/expense"
)

type ExpensesRepo struct {
	pool *pgxpool.Pool
}

func NewExpensesRepo(pool *pgxpool.Pool) *ExpensesRepo {
	return &ExpensesRepo{pool: pool}
}

func (r *ExpensesRepo) List(ctx context.Context) ([]expense.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, description, amount, category, created_at
		 FROM expenses
		 ORDER BY date DESC, id DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]expense.Expense, 0)

	for rows.Next() {
		var e expense.Expense

		err = rows.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category, &e.CreatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ExpensesRepo) Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.Expense, error) {
	now := time.Now().UTC()

	e := expense.Expense{
		Date:        now,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		CreatedAt:   now,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (date, description, amount, category, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.Date, e.Description, e.Amount, e.Category, e.CreatedAt,
	).Scan(&e.ID)

	if err != nil {
		return expense.Expense{}, err
	}

	return e, nil
}
