// Package download implements an asynchronous download manager with a
// persistent ledger and completion notifications.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartsystems/chatshell/internal/application/port"
	domaindl "github.com/smartsystems/chatshell/internal/domain/download"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/logging"
)

const (
	// Maximum package size (512MB) - prevents unbounded downloads.
	maxDownloadSize = 512 * 1024 * 1024

	// Transfers are not bounded by the caller's context, only by this.
	transferTimeout = 30 * time.Minute

	dirPerm  = 0o755
	filePerm = 0o644

	partSuffix = ".part"

	// A running transfer renews its ledger lease this many times per lease.
	leaseRenewals = 3
	// DefaultLease is how long an unfinished record stays owned by its
	// process without a renewal.
	DefaultLease = time.Minute
)

// ErrNotDownloaded is returned when a file URI is requested for a download
// that did not succeed.
var ErrNotDownloaded = errors.New("download has not completed successfully")

// Options configures a Manager.
type Options struct {
	// Dir is the public downloads directory artifacts are written to.
	Dir string
	// Client performs the transfers. Defaults to a client with no overall
	// timeout; transferTimeout bounds each transfer instead.
	Client *http.Client
	// Observe leaves unfinished ledger records alone. Processes that only
	// inspect the ledger set it so they do not fail another process's transfer.
	Observe bool
	// Lease bounds how long an unfinished record may go without renewal
	// before a new manager fails it. Defaults to DefaultLease.
	Lease time.Duration
}

// Manager implements port.DownloadManager.
type Manager struct {
	repo   repository.DownloadRepository
	client *http.Client
	dir    string
	lease  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu       sync.Mutex
	handlers map[uint64]port.CompletionHandler
	nextSub  uint64
}

// NewManager creates a manager whose transfers live as long as ctx.
// Unless opts.Observe is set, unfinished records whose lease expired are
// marked failed. Transfers of other live processes keep renewing theirs.
func NewManager(ctx context.Context, repo repository.DownloadRepository, opts Options) (*Manager, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("download directory cannot be empty")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Lease <= 0 {
		opts.Lease = DefaultLease
	}

	if !opts.Observe {
		n, err := repo.MarkInterrupted(ctx, time.Now().Add(-opts.Lease))
		if err != nil {
			return nil, fmt.Errorf("failed to recover download ledger: %w", err)
		}
		if n > 0 {
			logging.FromContext(ctx).Info().Int64("count", n).Msg("marked interrupted downloads as failed")
		}
	}

	mctx, cancel := context.WithCancel(logging.WithComponent(ctx, "download"))

	return &Manager{
		repo:     repo,
		client:   opts.Client,
		dir:      opts.Dir,
		lease:    opts.Lease,
		ctx:      mctx,
		cancel:   cancel,
		group:    &errgroup.Group{},
		handlers: make(map[uint64]port.CompletionHandler),
	}, nil
}

// Enqueue records the request and starts the transfer in the background.
func (m *Manager) Enqueue(ctx context.Context, req port.DownloadRequest) (int64, error) {
	if err := validateURL(req.URL); err != nil {
		return 0, err
	}
	if err := m.ctx.Err(); err != nil {
		return 0, fmt.Errorf("download manager closed: %w", err)
	}

	name := req.Filename
	if name == "" {
		name = domaindl.ExtractFilenameFromURI(req.URL)
	}
	dest := filepath.Join(m.dir, domaindl.SanitizeFilename(name))

	record := &entity.DownloadRecord{
		URL:          req.URL,
		Title:        req.Title,
		Description:  req.Description,
		Destination:  dest,
		Status:       entity.DownloadStatusPending,
		AllowMetered: req.AllowMetered,
		AllowRoaming: req.AllowRoaming,
	}
	id, err := m.repo.Create(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("failed to record download: %w", err)
	}

	m.group.Go(func() error {
		m.run(id, req.URL, dest)
		return nil
	})

	return id, nil
}

// Subscribe registers handler for all future completions.
func (m *Manager) Subscribe(handler port.CompletionHandler) port.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.handlers[id] = handler
	return &subscription{manager: m, id: id}
}

// Status returns the ledger status of a download.
func (m *Manager) Status(ctx context.Context, id int64) (entity.DownloadStatus, error) {
	record, err := m.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to read download %d: %w", id, err)
	}
	if record == nil {
		return "", port.ErrDownloadNotFound
	}
	return record.Status, nil
}

// URIForDownloadedFile returns the file:// URI of a successful download.
func (m *Manager) URIForDownloadedFile(ctx context.Context, id int64) (string, error) {
	record, err := m.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to read download %d: %w", id, err)
	}
	if record == nil {
		return "", port.ErrDownloadNotFound
	}
	if record.Status != entity.DownloadStatusSuccessful {
		return "", fmt.Errorf("%w: %d is %s", ErrNotDownloaded, id, record.Status)
	}
	return (&url.URL{Scheme: "file", Path: record.Destination}).String(), nil
}

// Recent returns the newest ledger records.
func (m *Manager) Recent(ctx context.Context, limit int) ([]*entity.DownloadRecord, error) {
	return m.repo.GetRecent(ctx, limit)
}

// Wait blocks until every running transfer finished and was notified.
func (m *Manager) Wait() error {
	return m.group.Wait()
}

// Close aborts running transfers and waits for them to be recorded.
func (m *Manager) Close() error {
	m.cancel()
	return m.group.Wait()
}

func (m *Manager) run(id int64, rawURL, dest string) {
	ctx := m.ctx
	log := logging.FromContext(ctx).With().Int64("download_id", id).Logger()
	defer logging.RecoverPanic(ctx, "download transfer")

	// The ledger must record the outcome even when the manager is closing.
	recordCtx := context.WithoutCancel(ctx)

	if err := m.repo.UpdateStatus(recordCtx, id, entity.DownloadStatusRunning, 0, ""); err != nil {
		log.Warn().Err(err).Msg("failed to mark download running")
	}

	stopLease := m.renewLease(recordCtx, id)
	written, err := m.transfer(ctx, rawURL, dest)
	stopLease()

	status := entity.DownloadStatusSuccessful
	errMsg := ""
	if err != nil {
		status = entity.DownloadStatusFailed
		errMsg = err.Error()
		log.Warn().Err(err).Str("url", rawURL).Msg("download failed")
	} else {
		log.Info().Int64("bytes", written).Str("path", dest).Msg("download completed")
	}

	if err := m.repo.UpdateStatus(recordCtx, id, status, written, errMsg); err != nil {
		log.Error().Err(err).Msg("failed to record download outcome")
	}

	m.notify(recordCtx, port.DownloadCompletion{ID: id, Status: status})
}

// renewLease touches the record until the returned stop func is called.
func (m *Manager) renewLease(ctx context.Context, id int64) (stop func()) {
	interval := max(m.lease/leaseRenewals, time.Millisecond)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := m.repo.Touch(ctx, id); err != nil {
					logging.FromContext(ctx).Warn().Err(err).Int64("download_id", id).Msg("failed to renew download lease")
				}
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func (m *Manager) transfer(ctx context.Context, rawURL, dest string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", "chatshell-downloader")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	if resp.ContentLength > maxDownloadSize {
		return 0, fmt.Errorf("package too large: %d bytes (max %d)", resp.ContentLength, maxDownloadSize)
	}

	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return 0, fmt.Errorf("failed to create download directory: %w", err)
	}

	part := dest + partSuffix
	file, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(resp.Body, maxDownloadSize+1))
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err == nil && written > maxDownloadSize {
		err = fmt.Errorf("package exceeds maximum size of %d bytes", maxDownloadSize)
	}
	if err != nil {
		_ = os.Remove(part)
		return written, fmt.Errorf("failed to write package: %w", err)
	}

	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return written, fmt.Errorf("failed to finalize package: %w", err)
	}
	return written, nil
}

// notify delivers completion to a snapshot of the handlers, outside the lock
// so handlers may cancel their own subscription.
func (m *Manager) notify(ctx context.Context, completion port.DownloadCompletion) {
	m.mu.Lock()
	handlers := make([]port.CompletionHandler, 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(ctx, completion)
	}
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL has no host: %s", rawURL)
	}
	return nil
}

type subscription struct {
	manager *Manager
	id      uint64
}

func (s *subscription) Cancel() {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	delete(s.manager.handlers, s.id)
}
