package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/libs/db"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// IDByUsername returns -1 with a nil error when the username is unknown.
func (r *UserRepository) IDByUsername(ctx context.Context, username string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return id, nil
}
