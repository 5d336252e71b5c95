package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendahub/backoffice/internal/domain/user"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

const userColumns = `u.id, u.email, u.password_hash, u.name, u.active, u.created_at, u.updated_at,
	COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}')`

const userJoin = `FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Roles,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// GetByEmail matches the stored email literally; no case normalization.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` `+userJoin+`
		 WHERE u.email = $1
		 GROUP BY u.id`,
		email,
	)

	return scanUser(row)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` `+userJoin+`
		 WHERE u.id = $1
		 GROUP BY u.id`,
		id,
	)

	return scanUser(row)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` `+userJoin+`
		 GROUP BY u.id
		 ORDER BY u.id`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]user.User, 0)

	for rows.Next() {
		u, err := scanUser(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Create inserts the user and its role assignments in one transaction.
func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string, roleIDs []int64) (user.User, error) {
	tx, err := r.pool.Begin(ctx)

	if err != nil {
		return user.User{}, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var id int64

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id`,
		email, passwordHash, name,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	err = insertUserRoles(ctx, tx, id, roleIDs)

	if err != nil {
		return user.User{}, err
	}

	err = tx.Commit(ctx)

	if err != nil {
		return user.User{}, err
	}

	return r.GetByID(ctx, id)
}

// Update rewrites the profile and replaces the role set wholesale
// (delete-all-then-recreate) inside a single transaction, so a failed
// recreate never leaves a user without their previous roles.
func (r *UsersRepo) Update(ctx context.Context, id int64, name, email string, passwordHash *string, roleIDs []int64) (user.User, error) {
	tx, err := r.pool.Begin(ctx)

	if err != nil {
		return user.User{}, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var tag pgconn.CommandTag

	if passwordHash != nil {
		tag, err = tx.Exec(ctx,
			`UPDATE users SET name = $2, email = $3, password_hash = $4, updated_at = NOW() WHERE id = $1`,
			id, name, email, *passwordHash,
		)
	} else {
		tag, err = tx.Exec(ctx,
			`UPDATE users SET name = $2, email = $3, updated_at = NOW() WHERE id = $1`,
			id, name, email,
		)
	}

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrNotFound
	}

	_, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id)

	if err != nil {
		return user.User{}, err
	}

	err = insertUserRoles(ctx, tx, id, roleIDs)

	if err != nil {
		return user.User{}, err
	}

	err = tx.Commit(ctx)

	if err != nil {
		return user.User{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *UsersRepo) SetActive(ctx context.Context, id int64, active bool) (user.User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)

	if err != nil {
		return user.User{}, err
	}

	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func insertUserRoles(ctx context.Context, tx pgx.Tx, userID int64, roleIDs []int64) error {
	for _, roleID := range roleIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			userID, roleID,
		)

		if err != nil {
			return err
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
