package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/security"
)

// EnsureAdminUser creates the bootstrap admin account and role when the
// configured admin email does not exist yet. Idempotent across restarts.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)

	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var roleID int64

	err = tx.QueryRow(ctx,
		`INSERT INTO roles (name, description)
		 VALUES ('admin', 'Full administrative access')
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
	).Scan(&roleID)

	if err != nil {
		return err
	}

	var userID int64

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id`,
		cfg.AdminEmail, hash, cfg.AdminName,
	).Scan(&userID)

	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
		userID, roleID,
	)

	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
