package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/scheddesk/scheddesk/internal/outbox"
	"github.com/scheddesk/scheddesk/libs/db"
)

// LoginAttempt is one row of the login activity trail.
type LoginAttempt struct {
	ID          int64
	Username    string
	Success     bool
	AttemptedAt time.Time
}

// Repository persists login attempts. Every attempt is recorded, success or
// failure, so operators can review authentication activity.
type Repository struct {
	pool   *db.Pool
	events *outbox.Repository
}

func NewRepository(pool *db.Pool, events *outbox.Repository) *Repository {
	return &Repository{pool: pool, events: events}
}

func (r *Repository) RecordLogin(ctx context.Context, username string, success bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	attemptedAt := time.Now().UTC()
	if _, err := tx.Exec(ctx, `
		INSERT INTO login_activity (username, success, attempted_at)
		VALUES ($1, $2, $3)
	`, username, success, attemptedAt); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"username":     username,
		"success":      success,
		"attempted_at": attemptedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := r.events.Insert(ctx, tx, outbox.Event{
		AggregateType: "user",
		AggregateID:   username,
		EventType:     outbox.EventUserLogin,
		Payload:       payload,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]LoginAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, success, attempted_at
		FROM login_activity
		ORDER BY attempted_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []LoginAttempt{}
	for rows.Next() {
		var a LoginAttempt
		if err := rows.Scan(&a.ID, &a.Username, &a.Success, &a.AttemptedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return attempts, nil
}
