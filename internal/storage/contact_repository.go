package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/libs/db"
)

type ContactRepository struct {
	pool *db.Pool
}

func NewContactRepository(pool *db.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(email, '')
		FROM contacts
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return contacts, nil
}

// IDByName resolves the UI-facing contact name to its persisted ID.
// A miss returns -1 with a nil error; the caller decides whether that is
// fatal for the operation in hand.
func (r *ContactRepository) IDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `SELECT id FROM contacts WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return id, nil
}

// NameByID is the reverse lookup; a miss returns the empty string.
func (r *ContactRepository) NameByID(ctx context.Context, id int) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM contacts WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
