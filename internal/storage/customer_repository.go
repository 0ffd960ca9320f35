package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/internal/outbox"
	"github.com/scheddesk/scheddesk/libs/db"
)

type CustomerRepository struct {
	pool   *db.Pool
	events *outbox.Repository
}

func NewCustomerRepository(pool *db.Pool, events *outbox.Repository) *CustomerRepository {
	return &CustomerRepository{pool: pool, events: events}
}

func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, postal_code, phone, division_id,
			COALESCE(created_by, ''), COALESCE(updated_by, ''), created_at, updated_at
		FROM customers
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Address,
			&c.PostalCode,
			&c.Phone,
			&c.DivisionID,
			&c.CreatedBy,
			&c.UpdatedBy,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return customers, nil
}

func (r *CustomerRepository) NextID(ctx context.Context) (int, error) {
	var max int
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM customers`).Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}

// ExistsDuplicate reports whether another customer already carries the exact
// same (name, address, postal code, phone) tuple.
func (r *CustomerRepository) ExistsDuplicate(ctx context.Context, name, address, postalCode, phone string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customers
			WHERE name = $1 AND address = $2 AND postal_code = $3 AND phone = $4
		)
	`, name, address, postalCode, phone).Scan(&exists)
	return exists, err
}

// HasAppointments guards customer deletion: a customer with appointments on
// the books cannot be removed.
func (r *CustomerRepository) HasAppointments(ctx context.Context, customerID int) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments WHERE customer_id = $1
	`, customerID).Scan(&count)
	return count > 0, err
}

func (r *CustomerRepository) Insert(ctx context.Context, c model.Customer) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		INSERT INTO customers (id, name, address, postal_code, phone, division_id, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, c.ID, c.Name, c.Address, c.PostalCode, c.Phone, c.DivisionID, c.CreatedBy)
	if err != nil {
		return 0, err
	}
	rows := tag.RowsAffected()
	if rows == 0 {
		return 0, tx.Commit(ctx)
	}

	payload, err := json.Marshal(map[string]any{
		"customer_id": c.ID,
		"division_id": c.DivisionID,
		"created_by":  c.CreatedBy,
	})
	if err != nil {
		return 0, err
	}
	if err := r.events.Insert(ctx, tx, outbox.Event{
		AggregateType: "customer",
		AggregateID:   strconv.Itoa(c.ID),
		EventType:     outbox.EventCustomerCreated,
		Payload:       payload,
	}); err != nil {
		return 0, err
	}
	return rows, tx.Commit(ctx)
}

func (r *CustomerRepository) Update(ctx context.Context, c model.Customer) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $2,
			address = $3,
			postal_code = $4,
			phone = $5,
			division_id = $6,
			updated_by = $7,
			updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.Address, c.PostalCode, c.Phone, c.DivisionID, c.UpdatedBy)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	rows := tag.RowsAffected()
	if rows == 0 {
		return 0, tx.Commit(ctx)
	}

	payload, err := json.Marshal(map[string]any{
		"customer_id": id,
		"deleted_at":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if err := r.events.Insert(ctx, tx, outbox.Event{
		AggregateType: "customer",
		AggregateID:   strconv.Itoa(id),
		EventType:     outbox.EventCustomerDeleted,
		Payload:       payload,
	}); err != nil {
		return 0, err
	}
	return rows, tx.Commit(ctx)
}
