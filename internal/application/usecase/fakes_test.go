package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/domain/entity"
)

func testCtx() context.Context {
	return context.Background()
}

// memStore is an in-memory repository.StateRepository.
type memStore struct {
	mu     sync.Mutex
	values map[string]int64
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]int64)}
}

func (s *memStore) GetInt64(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memStore) SetInt64(_ context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memStore) has(key string) bool {
	_, ok, _ := s.GetInt64(context.Background(), key)
	return ok
}

// fakeDownloads records requests and lets tests deliver completions by hand.
type fakeDownloads struct {
	mu         sync.Mutex
	nextID     int64
	nextSub    int
	handlers   map[int]port.CompletionHandler
	requests   []port.DownloadRequest
	statuses   map[int64]entity.DownloadStatus
	enqueueErr error
}

func newFakeDownloads() *fakeDownloads {
	return &fakeDownloads{
		handlers: make(map[int]port.CompletionHandler),
		statuses: make(map[int64]entity.DownloadStatus),
	}
}

func (f *fakeDownloads) Enqueue(_ context.Context, req port.DownloadRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	f.nextID++
	f.requests = append(f.requests, req)
	f.statuses[f.nextID] = entity.DownloadStatusRunning
	return f.nextID, nil
}

func (f *fakeDownloads) Subscribe(handler port.CompletionHandler) port.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSub++
	f.handlers[f.nextSub] = handler
	return &fakeSubscription{owner: f, id: f.nextSub}
}

func (f *fakeDownloads) Status(_ context.Context, id int64) (entity.DownloadStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.statuses[id]
	if !ok {
		return "", port.ErrDownloadNotFound
	}
	return status, nil
}

func (f *fakeDownloads) URIForDownloadedFile(_ context.Context, id int64) (string, error) {
	return "file:///downloads/" + strconv.FormatInt(id, 10), nil
}

// complete marks id finished and notifies every subscriber.
func (f *fakeDownloads) complete(ctx context.Context, id int64, status entity.DownloadStatus) {
	f.mu.Lock()
	f.statuses[id] = status
	handlers := make([]port.CompletionHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ctx, port.DownloadCompletion{ID: id, Status: status})
	}
}

func (f *fakeDownloads) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type fakeSubscription struct {
	owner *fakeDownloads
	id    int
}

func (s *fakeSubscription) Cancel() {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	delete(s.owner.handlers, s.id)
}
