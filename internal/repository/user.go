package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

// UserRepository stores operator accounts.
type UserRepository struct {
	db *pgxpool.Pool
}

// Create inserts a new user and fills in its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (user_id, name, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING created_at, updated_at
`
	u.UserID = uuid.New()
	err := r.db.QueryRow(ctx, q, u.UserID, u.Name, u.Email, u.PasswordHash, u.Role).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, created_at, updated_at
FROM users
WHERE email = $1
`
	return r.scanOne(ctx, q, email)
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, created_at, updated_at
FROM users
WHERE user_id = $1
`
	return r.scanOne(ctx, q, id)
}

// ListByRole returns users with the given role ordered by name.
func (r *UserRepository) ListByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	const q = `
SELECT user_id, name, email, password_hash, role, created_at, updated_at
FROM users
WHERE role = $1
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, q, role)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func (r *UserRepository) scanOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	row := r.db.QueryRow(ctx, q, arg)
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
