package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/domain/purchase"
	"github.com/tiendahub/backoffice/internal/domain/supplier"
)

type PurchasesRepo struct {
	pool *pgxpool.Pool
}

func NewPurchasesRepo(pool *pgxpool.Pool) *PurchasesRepo {
	return &PurchasesRepo{pool: pool}
}

// Create records the purchase header, its lines and the stock increments in
// one transaction.
func (r *PurchasesRepo) Create(ctx context.Context, req purchase.CreatePurchaseRequest) (purchase.Purchase, error) {
	tx, err := r.pool.Begin(ctx)

	if err != nil {
		return purchase.Purchase{}, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var supplierName string

	err = tx.QueryRow(ctx,
		`SELECT name FROM suppliers WHERE id = $1`, req.SupplierID,
	).Scan(&supplierName)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return purchase.Purchase{}, supplier.ErrNotFound
		}

		return purchase.Purchase{}, err
	}

	now := time.Now().UTC()

	lines := make([]purchase.Item, 0, len(req.Lines))
	total := 0.0

	for _, line := range req.Lines {
		var name string

		err = tx.QueryRow(ctx,
			`UPDATE items SET stock = stock + $2, updated_at = NOW()
			 WHERE id = $1
			 RETURNING name`,
			line.ItemID, line.Quantity,
		).Scan(&name)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return purchase.Purchase{}, catalog.ErrNotFound
			}

			return purchase.Purchase{}, err
		}

		lineTotal := line.UnitCost * float64(line.Quantity)
		total += lineTotal

		lines = append(lines, purchase.Item{
			ItemID:   line.ItemID,
			Name:     name,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
			Total:    lineTotal,
		})
	}

	p := purchase.Purchase{
		Date:         now,
		SupplierID:   req.SupplierID,
		SupplierName: supplierName,
		Total:        total,
		Status:       purchase.StatusCompleted,
		Items:        lines,
		CreatedAt:    now,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO purchases (date, supplier_id, total, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Date, p.SupplierID, p.Total, p.Status, p.CreatedAt,
	).Scan(&p.ID)

	if err != nil {
		return purchase.Purchase{}, err
	}

	for _, line := range lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO purchase_items (purchase_id, item_id, name, quantity, unit_cost, total)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, line.ItemID, line.Name, line.Quantity, line.UnitCost, line.Total,
		)

		if err != nil {
			return purchase.Purchase{}, err
		}
	}

	err = tx.Commit(ctx)

	if err != nil {
		return purchase.Purchase{}, err
	}

	return p, nil
}

func (r *PurchasesRepo) GetByID(ctx context.Context, id int64) (purchase.Purchase, error) {
	var p purchase.Purchase

	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.date, p.supplier_id, s.name, p.total, p.status, p.created_at
		 FROM purchases p
		 JOIN suppliers s ON s.id = p.supplier_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Date, &p.SupplierID, &p.SupplierName, &p.Total, &p.Status, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return purchase.Purchase{}, purchase.ErrNotFound
		}

		return purchase.Purchase{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT item_id, name, quantity, unit_cost, total
		 FROM purchase_items
		 WHERE purchase_id = $1`,
		id,
	)

	if err != nil {
		return purchase.Purchase{}, err
	}

	defer rows.Close()

	p.Items = make([]purchase.Item, 0)

	for rows.Next() {
		var it purchase.Item

		err = rows.Scan(&it.ItemID, &it.Name, &it.Quantity, &it.UnitCost, &it.Total)

		if err != nil {
			return purchase.Purchase{}, err
		}

		p.Items = append(p.Items, it)
	}

	return p, rows.Err()
}

func (r *PurchasesRepo) List(ctx context.Context) ([]purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.date, p.supplier_id, s.name, p.total, p.status, p.created_at
		 FROM purchases p
		 JOIN suppliers s ON s.id = p.supplier_id
		 ORDER BY p.date DESC, p.id DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]purchase.Purchase, 0)

	for rows.Next() {
		var p purchase.Purchase

		err = rows.Scan(&p.ID, &p.Date, &p.SupplierID, &p.SupplierName, &p.Total, &p.Status, &p.CreatedAt)

		if err != nil {
			return nil, err
		}

		p.Items = []purchase.Item{}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
