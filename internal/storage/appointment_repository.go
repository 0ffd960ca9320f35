package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/internal/outbox"
	"github.com/scheddesk/scheddesk/libs/db"
)

const appointmentColumns = `
	id, title, description, location, type, start_time, end_time,
	customer_id, user_id, contact_id,
	COALESCE(created_by, ''), COALESCE(updated_by, ''), created_at, updated_at`

type AppointmentRepository struct {
	pool   *db.Pool
	events *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, events *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, events: events}
}

func (r *AppointmentRepository) ListForCustomer(ctx context.Context, customerID int) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE customer_id = $1
		ORDER BY start_time ASC
	`, customerID)
}

func (r *AppointmentRepository) ListForUser(ctx context.Context, userID int) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = $1
		ORDER BY start_time ASC
	`, userID)
}

func (r *AppointmentRepository) ListForContact(ctx context.Context, contactID int) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE contact_id = $1
		ORDER BY start_time ASC
	`, contactID)
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY start_time ASC
	`)
}

// ListUpcomingForUser returns the user's appointments starting at or after
// now, soonest first, so the login alert reports the nearest one.
func (r *AppointmentRepository) ListUpcomingForUser(ctx context.Context, userID int, now time.Time) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`, userID, now)
}

// NextID allocates the next appointment ID the way the desktop client did:
// one above the current maximum.
func (r *AppointmentRepository) NextID(ctx context.Context) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM appointments`).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *AppointmentRepository) Insert(ctx context.Context, appt model.Appointment) (int64, error) {
	return r.write(ctx, appt, outbox.EventAppointmentCreated, func(ctx context.Context, tx pgx.Tx) (int64, error) {
		tag, err := tx.Exec(ctx, `
			INSERT INTO appointments
				(id, title, description, location, type, start_time, end_time,
				 customer_id, user_id, contact_id, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		`, appt.ID, appt.Title, appt.Description, appt.Location, appt.Type,
			appt.Start, appt.End, appt.CustomerID, appt.UserID, appt.ContactID, appt.CreatedBy)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}

func (r *AppointmentRepository) Update(ctx context.Context, appt model.Appointment) (int64, error) {
	return r.write(ctx, appt, outbox.EventAppointmentUpdated, func(ctx context.Context, tx pgx.Tx) (int64, error) {
		tag, err := tx.Exec(ctx, `
			UPDATE appointments
			SET title = $2,
				description = $3,
				location = $4,
				type = $5,
				start_time = $6,
				end_time = $7,
				customer_id = $8,
				user_id = $9,
				contact_id = $10,
				updated_by = $11,
				updated_at = now()
			WHERE id = $1
		`, appt.ID, appt.Title, appt.Description, appt.Location, appt.Type,
			appt.Start, appt.End, appt.CustomerID, appt.UserID, appt.ContactID, appt.UpdatedBy)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	rows := tag.RowsAffected()
	if rows == 0 {
		return 0, tx.Commit(ctx)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"deleted_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if err := r.events.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   strconv.Itoa(id),
		EventType:     outbox.EventAppointmentDeleted,
		Payload:       payload,
	}); err != nil {
		return 0, err
	}
	return rows, tx.Commit(ctx)
}

// write runs the given statement and the matching outbox insert in one
// transaction so the event is exactly as durable as the row.
func (r *AppointmentRepository) write(ctx context.Context, appt model.Appointment, eventType string, stmt func(context.Context, pgx.Tx) (int64, error)) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := stmt(ctx, tx)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, tx.Commit(ctx)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"customer_id":    appt.CustomerID,
		"user_id":        appt.UserID,
		"contact_id":     appt.ContactID,
		"type":           appt.Type,
		"start_time":     appt.Start.UTC().Format(time.RFC3339),
		"end_time":       appt.End.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if err := r.events.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   strconv.Itoa(appt.ID),
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		return 0, err
	}
	return rows, tx.Commit(ctx)
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appts := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.Location,
			&a.Type,
			&a.Start,
			&a.End,
			&a.CustomerID,
			&a.UserID,
			&a.ContactID,
			&a.CreatedBy,
			&a.UpdatedBy,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}
