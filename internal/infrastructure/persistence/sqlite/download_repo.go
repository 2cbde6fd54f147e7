package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/logging"
)

const downloadColumns = `id, url, title, description, destination, status, bytes, error,
allow_metered, allow_roaming, created_at, updated_at`

const (
	insertDownloadSQL = `INSERT INTO downloads
(url, title, description, destination, status, bytes, error, allow_metered, allow_roaming, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	getDownloadSQL          = `SELECT ` + downloadColumns + ` FROM downloads WHERE id = ?`
	updateDownloadStatusSQL = `UPDATE downloads SET status = ?, bytes = ?, error = ?, updated_at = ? WHERE id = ?`
	touchDownloadSQL        = `UPDATE downloads SET updated_at = ? WHERE id = ? AND status IN ('pending', 'running')`
	markInterruptedSQL      = `UPDATE downloads SET status = 'failed', error = ?, updated_at = ?
WHERE status IN ('pending', 'running') AND updated_at < ?`
	recentDownloadsSQL = `SELECT ` + downloadColumns + ` FROM downloads ORDER BY created_at DESC, id DESC LIMIT ?`
)

// interruptedMessage is stored on records whose owning process stopped
// renewing their lease.
const interruptedMessage = "interrupted"

type downloadRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewDownloadRepository creates a new SQLite-backed download ledger.
func NewDownloadRepository(db *sql.DB) repository.DownloadRepository {
	return &downloadRepo{db: db, now: time.Now}
}

func (r *downloadRepo) Create(ctx context.Context, record *entity.DownloadRecord) (int64, error) {
	now := r.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, insertDownloadSQL,
		record.URL,
		record.Title,
		record.Description,
		record.Destination,
		string(record.Status),
		record.Bytes,
		record.Error,
		boolToInt(record.AllowMetered),
		boolToInt(record.AllowRoaming),
		record.CreatedAt.UnixMilli(),
		record.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	record.ID = id

	logging.FromContext(ctx).Debug().Int64("download_id", id).Str("url", record.URL).Msg("download recorded")
	return id, nil
}

func (r *downloadRepo) Get(ctx context.Context, id int64) (*entity.DownloadRecord, error) {
	record, err := scanDownload(r.db.QueryRowContext(ctx, getDownloadSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return record, err
}

func (r *downloadRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status entity.DownloadStatus,
	bytes int64,
	errMsg string,
) error {
	_, err := r.db.ExecContext(ctx, updateDownloadStatusSQL,
		string(status), bytes, errMsg, r.now().UnixMilli(), id)
	return err
}

func (r *downloadRepo) Touch(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, touchDownloadSQL, r.now().UnixMilli(), id)
	return err
}

func (r *downloadRepo) MarkInterrupted(ctx context.Context, staleBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, markInterruptedSQL,
		interruptedMessage, r.now().UnixMilli(), staleBefore.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *downloadRepo) GetRecent(ctx context.Context, limit int) ([]*entity.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx, recentDownloadsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*entity.DownloadRecord
	for rows.Next() {
		record, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDownload(row rowScanner) (*entity.DownloadRecord, error) {
	var (
		record                     entity.DownloadRecord
		status                     string
		allowMetered, allowRoaming int64
		createdAt, updatedAt       int64
	)
	err := row.Scan(
		&record.ID,
		&record.URL,
		&record.Title,
		&record.Description,
		&record.Destination,
		&status,
		&record.Bytes,
		&record.Error,
		&allowMetered,
		&allowRoaming,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Status = entity.DownloadStatus(status)
	record.AllowMetered = allowMetered != 0
	record.AllowRoaming = allowRoaming != 0
	record.CreatedAt = time.UnixMilli(createdAt)
	record.UpdatedAt = time.UnixMilli(updatedAt)
	return &record, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
