package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/role"
)

type RolesRepo struct {
	pool *pgxpool.Pool
}

func NewRolesRepo(pool *pgxpool.Pool) *RolesRepo {
	return &RolesRepo{pool: pool}
}

func (r *RolesRepo) List(ctx context.Context) ([]role.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at
		 FROM roles
		 ORDER BY id`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]role.Role, 0)

	for rows.Next() {
		var ro role.Role

		err = rows.Scan(&ro.ID, &ro.Name, &ro.Description, &ro.CreatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, ro)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *RolesRepo) Create(ctx context.Context, req role.CreateRoleRequest) (role.Role, error) {
	var ro role.Role

	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description)
		 VALUES ($1, NULLIF($2, ''))
		 RETURNING id, name, COALESCE(description, ''), created_at`,
		req.Name, req.Description,
	).Scan(&ro.ID, &ro.Name, &ro.Description, &ro.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return role.Role{}, role.ErrNameTaken
		}

		return role.Role{}, err
	}

	return ro, nil
}
