package db

import (
	"context"
	"time"
)

const createUser = `
INSERT INTO users (id, name, email, role, created_at)
VALUES (?, ?, ?, ?, ?)
`

// CreateUserParams はCreateUserの引数。
type CreateUserParams struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

// CreateUser はユーザーを作成する。
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser, arg.ID, arg.Name, arg.Email, arg.Role, arg.CreatedAt)
	return err
}

const getUserByEmail = `
SELECT id, name, email, role, created_at FROM users WHERE email = ?
`

// GetUserByEmail はメールアドレスでユーザーを取得する。
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers は全ユーザー数を返す。
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

const countUsersByRole = `SELECT COUNT(*) FROM users WHERE role = ?`

// CountUsersByRole はロールごとのユーザー数を返す。
func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByRole, role).Scan(&n)
	return n, err
}

const listUsersByRole = `
SELECT id, name, email, role, created_at FROM users
WHERE role = ?
ORDER BY created_at, id
LIMIT ? OFFSET ?
`

// ListUsersByRoleParams はListUsersByRoleの引数。
type ListUsersByRoleParams struct {
	Role   string
	Limit  int64
	Offset int64
}

// ListUsersByRole はロールでユーザーを絞り込んで1ページ分を返す。
func (q *Queries) ListUsersByRole(ctx context.Context, arg ListUsersByRoleParams) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsersByRole, arg.Role, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
