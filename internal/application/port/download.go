package port

import (
	"context"
	"errors"

	"github.com/smartsystems/chatshell/internal/domain/entity"
)

// ErrDownloadNotFound is returned when a download id is unknown to the manager.
var ErrDownloadNotFound = errors.New("download not found")

// DownloadRequest describes one asynchronous transfer.
type DownloadRequest struct {
	URL         string
	Title       string
	Description string
	// Filename is the name of the artifact inside the public downloads directory.
	Filename string
	// AllowMetered and AllowRoaming permit the transfer on any network type.
	AllowMetered bool
	AllowRoaming bool
}

// DownloadCompletion is delivered once a download reaches a terminal state.
type DownloadCompletion struct {
	ID     int64
	Status entity.DownloadStatus
}

// CompletionHandler receives completion notifications.
// It runs on the download manager's goroutine.
type CompletionHandler func(ctx context.Context, completion DownloadCompletion)

// Subscription is a registered completion handler.
type Subscription interface {
	// Cancel deregisters the handler. It is safe to call more than once,
	// including from inside the handler.
	Cancel()
}

// DownloadManager enqueues transfers and notifies subscribers on completion.
type DownloadManager interface {
	// Enqueue starts an asynchronous download and returns its id immediately.
	Enqueue(ctx context.Context, req DownloadRequest) (int64, error)

	// Subscribe registers handler for every future completion notification.
	Subscribe(handler CompletionHandler) Subscription

	// Status returns the current status of a download.
	// Returns ErrDownloadNotFound for unknown ids.
	Status(ctx context.Context, id int64) (entity.DownloadStatus, error)

	// URIForDownloadedFile resolves a successful download to a file URI.
	URIForDownloadedFile(ctx context.Context, id int64) (string, error)
}
