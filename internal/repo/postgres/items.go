package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/catalog"
)

type ItemsRepo struct {
	pool *pgxpool.Pool
}

func NewItemsRepo(pool *pgxpool.Pool) *ItemsRepo {
	return &ItemsRepo{pool: pool}
}

const itemColumns = `id, sku, name, description, category, price, cost, stock, min_stock, created_at, updated_at`

func scanItem(row pgx.Row) (catalog.Item, error) {
	var it catalog.Item

	err := row.Scan(
		&it.ID,
		&it.SKU,
		&it.Name,
		&it.Description,
		&it.Category,
		&it.Price,
		&it.Cost,
		&it.Stock,
		&it.MinStock,
		&it.CreatedAt,
		&it.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Item{}, catalog.ErrNotFound
		}

		return catalog.Item{}, err
	}

	return it, nil
}

func (r *ItemsRepo) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]catalog.Item, 0)

	for rows.Next() {
		it, err := scanItem(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ItemsRepo) GetByID(ctx context.Context, id int64) (catalog.Item, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id,
	)

	return scanItem(row)
}

func (r *ItemsRepo) Create(ctx context.Context, req catalog.CreateItemRequest) (catalog.Item, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO items (sku, name, description, category, price, cost, stock, min_stock)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+itemColumns,
		req.SKU, req.Name, req.Description, req.Category, req.Price, req.Cost, req.Stock, req.MinStock,
	)

	it, err := scanItem(row)

	if err != nil && isUniqueViolation(err) {
		return catalog.Item{}, catalog.ErrSKUTaken
	}

	return it, err
}

// Update rewrites the item description fields. Stock is deliberately absent:
// it only moves through sales and purchases.
func (r *ItemsRepo) Update(ctx context.Context, id int64, req catalog.UpdateItemRequest) (catalog.Item, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE items
		 SET sku = $2,
		     name = $3,
		     description = $4,
		     category = $5,
		     price = $6,
		     cost = $7,
		     min_stock = $8,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+itemColumns,
		id, req.SKU, req.Name, req.Description, req.Category, req.Price, req.Cost, req.MinStock,
	)

	it, err := scanItem(row)

	if err != nil && isUniqueViolation(err) {
		return catalog.Item{}, catalog.ErrSKUTaken
	}

	return it, err
}

func (r *ItemsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	return nil
}
