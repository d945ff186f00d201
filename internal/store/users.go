package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/honlab/equiptrack/internal/model"
)

var userColumns = []any{"id", "username", "password_hash", "role", "created_at", "deleted_at"}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// getUserWhere returns the first user matching the expressions, active users
// first and newest first within each group.
func getUserWhere(ctx context.Context, q Querier, where ...goqu.Expression) (*model.User, error) {
	query, args, err := dialect.From("users").
		Select(userColumns...).
		Where(where...).
		Order(goqu.L("deleted_at IS NOT NULL").Asc(), goqu.C("id").Desc()).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}

	u, err := scanUser(q.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// CreateUser creates a new user.
func CreateUser(ctx context.Context, q Querier, username, passwordHash, role string) (*model.User, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}
	return GetUser(ctx, q, id)
}

// GetUser returns a user by ID, including deleted users.
func GetUser(ctx context.Context, q Querier, id int64) (*model.User, error) {
	return getUserWhere(ctx, q, goqu.C("id").Eq(id))
}

// GetUserByUsername returns a user by username. A deleted user is returned
// only if no active user has the name, so callers can tell the two apart.
func GetUserByUsername(ctx context.Context, q Querier, username string) (*model.User, error) {
	return getUserWhere(ctx, q, goqu.C("username").Eq(username))
}

// ListUsers returns all active users, filtered to one role when role is set.
func ListUsers(ctx context.Context, q Querier, role ...string) ([]model.User, error) {
	ds := dialect.From("users").
		Select(userColumns...).
		Where(goqu.C("deleted_at").IsNull()).
		Order(goqu.C("id").Asc())
	if len(role) > 0 {
		ds = ds.Where(goqu.C("role").In(role))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building user list: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser changes the role of an active user.
func UpdateUser(ctx context.Context, q Querier, id int64, role string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ? AND deleted_at IS NULL`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces the password hash of an active user.
func UpdateUserPassword(ctx context.Context, q Querier, id int64, passwordHash string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user. The row stays so transfers keep their
// transferred_by reference.
func DeleteUser(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
