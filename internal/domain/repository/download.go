package repository

import (
	"context"
	"time"

	"github.com/smartsystems/chatshell/internal/domain/entity"
)

// DownloadRepository persists the download manager's ledger.
type DownloadRepository interface {
	// Create inserts a new record and returns its id.
	Create(ctx context.Context, record *entity.DownloadRecord) (int64, error)

	// Get retrieves a record by id.
	// Returns nil if the record does not exist.
	Get(ctx context.Context, id int64) (*entity.DownloadRecord, error)

	// UpdateStatus moves a record to status and stores the transferred byte count
	// and failure message.
	UpdateStatus(ctx context.Context, id int64, status entity.DownloadStatus, bytes int64, errMsg string) error

	// Touch renews the lease of an unfinished record by refreshing its
	// update time. Finished records are left alone.
	Touch(ctx context.Context, id int64) error

	// MarkInterrupted fails every pending or running record whose lease was
	// last renewed before staleBefore and returns how many were changed.
	MarkInterrupted(ctx context.Context, staleBefore time.Time) (int64, error)

	// GetRecent returns the most recent records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*entity.DownloadRecord, error)
}
