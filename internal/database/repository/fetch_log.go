package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// FetchLogRepo handles the fetch history.
type FetchLogRepo struct {
	db *sql.DB
}

func NewFetchLogRepo(db *sql.DB) *FetchLogRepo { return &FetchLogRepo{db: db} }

// Record inserts e. A missing ID or timestamp is filled in.
func (r *FetchLogRepo) Record(ctx context.Context, e FetchLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO fetch_log(id, user_id, outcome, name, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`, e.ID, e.UserID, e.Outcome, e.Name, e.Error, e.CreatedAt)
	return err
}

// Recent lists up to limit entries, newest first.
func (r *FetchLogRepo) Recent(ctx context.Context, limit int) ([]FetchLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, outcome, name, error, created_at
	FROM fetch_log
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FetchLogEntry
	for rows.Next() {
		var e FetchLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Outcome, &e.Name, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
