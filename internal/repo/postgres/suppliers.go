package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/supplier"
)

type SuppliersRepo struct {
	pool *pgxpool.Pool
}

func NewSuppliersRepo(pool *pgxpool.Pool) *SuppliersRepo {
	return &SuppliersRepo{pool: pool}
}

const supplierColumns = `id, name, email, phone, address, tax_id, active, created_at, updated_at`

func scanSupplier(row pgx.Row) (supplier.Supplier, error) {
	var s supplier.Supplier

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.TaxID,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return supplier.Supplier{}, supplier.ErrNotFound
		}

		return supplier.Supplier{}, err
	}

	return s, nil
}

func (r *SuppliersRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY id`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]supplier.Supplier, 0)

	for rows.Next() {
		s, err := scanSupplier(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *SuppliersRepo) GetByID(ctx context.Context, id int64) (supplier.Supplier, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id,
	)

	return scanSupplier(row)
}

func (r *SuppliersRepo) Create(ctx context.Context, req supplier.CreateSupplierRequest) (supplier.Supplier, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO suppliers (name, email, phone, address, tax_id, active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING `+supplierColumns,
		req.Name, req.Email, req.Phone, req.Address, req.TaxID,
	)

	return scanSupplier(row)
}

func (r *SuppliersRepo) Update(ctx context.Context, id int64, req supplier.UpdateSupplierRequest) (supplier.Supplier, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE suppliers
		 SET name = $2,
		     email = $3,
		     phone = $4,
		     address = $5,
		     tax_id = $6,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+supplierColumns,
		id, req.Name, req.Email, req.Phone, req.Address, req.TaxID,
	)

	return scanSupplier(row)
}

func (r *SuppliersRepo) SetActive(ctx context.Context, id int64, active bool) (supplier.Supplier, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE suppliers
		 SET active = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+supplierColumns,
		id, active,
	)

	return scanSupplier(row)
}
