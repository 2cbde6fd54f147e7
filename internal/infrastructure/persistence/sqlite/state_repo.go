package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/logging"
)

const (
	getStateSQL    = `SELECT value FROM kv_state WHERE key = ?`
	upsertStateSQL = `INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteStateSQL = `DELETE FROM kv_state WHERE key = ?`
)

type stateRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewStateRepository creates a new SQLite-backed key-value state repository.
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &stateRepo{db: db, now: time.Now}
}

func (r *stateRepo) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, getStateSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

func (r *stateRepo) SetInt64(ctx context.Context, key string, value int64) error {
	logging.FromContext(ctx).Debug().Str("key", key).Int64("value", value).Msg("setting state")

	_, err := r.db.ExecContext(ctx, upsertStateSQL, key, value, r.now().UnixMilli())
	return err
}

func (r *stateRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, deleteStateSQL, key)
	return err
}
