package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/domain/sale"
)

type SalesRepo struct {
	pool *pgxpool.Pool
}

func NewSalesRepo(pool *pgxpool.Pool) *SalesRepo {
	return &SalesRepo{pool: pool}
}

// Create records the sale header, its lines and the stock decrements in one
// transaction. Unit prices are read from the catalog inside the same tx, so a
// concurrent price change cannot split a sale across two price lists. The
// returned slice holds the items that fell to or below their reorder floor.
func (r *SalesRepo) Create(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
	tx, err := r.pool.Begin(ctx)

	if err != nil {
		return sale.Sale{}, nil, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	lines := make([]sale.Item, 0, len(req.Lines))
	low := make([]catalog.Item, 0)
	total := 0.0

	for _, line := range req.Lines {
		var it catalog.Item

		err = tx.QueryRow(ctx,
			`SELECT id, sku, name, price, stock, min_stock
			 FROM items
			 WHERE id = $1
			 FOR UPDATE`,
			line.ItemID,
		).Scan(&it.ID, &it.SKU, &it.Name, &it.Price, &it.Stock, &it.MinStock)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return sale.Sale{}, nil, catalog.ErrNotFound
			}

			return sale.Sale{}, nil, err
		}

		if it.Stock < line.Quantity {
			return sale.Sale{}, nil, catalog.ErrInsufficientStock
		}

		_, err = tx.Exec(ctx,
			`UPDATE items SET stock = stock - $2, updated_at = NOW() WHERE id = $1`,
			it.ID, line.Quantity,
		)

		if err != nil {
			return sale.Sale{}, nil, err
		}

		it.Stock -= line.Quantity

		if it.LowStock() {
			low = append(low, it)
		}

		lineTotal := it.Price * float64(line.Quantity)
		total += lineTotal

		lines = append(lines, sale.Item{
			ItemID:   it.ID,
			Name:     it.Name,
			Quantity: line.Quantity,
			Price:    it.Price,
			Total:    lineTotal,
		})
	}

	s := sale.Sale{
		Date:      now,
		Total:     total,
		Status:    sale.StatusCompleted,
		Items:     lines,
		CreatedAt: now,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO sales (date, total, status, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		s.Date, s.Total, s.Status, s.CreatedAt,
	).Scan(&s.ID)

	if err != nil {
		return sale.Sale{}, nil, err
	}

	for _, line := range lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_items (sale_id, item_id, name, quantity, price, total)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, line.ItemID, line.Name, line.Quantity, line.Price, line.Total,
		)

		if err != nil {
			return sale.Sale{}, nil, err
		}
	}

	err = tx.Commit(ctx)

	if err != nil {
		return sale.Sale{}, nil, err
	}

	return s, low, nil
}

func (r *SalesRepo) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	var s sale.Sale

	err := r.pool.QueryRow(ctx,
		`SELECT id, date, total, status, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Date, &s.Total, &s.Status, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrNotFound
		}

		return sale.Sale{}, err
	}

	items, err := r.itemsFor(ctx, id)

	if err != nil {
		return sale.Sale{}, err
	}

	s.Items = items

	return s, nil
}

func (r *SalesRepo) List(ctx context.Context) ([]sale.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, total, status, created_at FROM sales ORDER BY date DESC, id DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]sale.Sale, 0)

	for rows.Next() {
		var s sale.Sale

		err = rows.Scan(&s.ID, &s.Date, &s.Total, &s.Status, &s.CreatedAt)

		if err != nil {
			return nil, err
		}

		s.Items = []sale.Item{}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *SalesRepo) itemsFor(ctx context.Context, saleID int64) ([]sale.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT item_id, name, quantity, price, total
		 FROM sale_items
		 WHERE sale_id = $1`,
		saleID,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	items := make([]sale.Item, 0)

	for rows.Next() {
		var it sale.Item

		err = rows.Scan(&it.ItemID, &it.Name, &it.Quantity, &it.Price, &it.Total)

		if err != nil {
			return nil, err
		}

		items = append(items, it)
	}

	return items, rows.Err()
}
