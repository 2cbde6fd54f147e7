package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/repository"
)

// Keys of the persisted update state.
const (
	KeyLastCheck  = "last_check"
	KeyDownloadID = "download_id"
)

// updateState wraps the key-value store with typed accessors for CheckState
// and DownloadHandle.
type updateState struct {
	store repository.StateRepository
}

func (s updateState) checkState(ctx context.Context) (entity.CheckState, error) {
	millis, ok, err := s.store.GetInt64(ctx, KeyLastCheck)
	if err != nil {
		return entity.CheckState{}, fmt.Errorf("read %s: %w", KeyLastCheck, err)
	}
	if !ok {
		return entity.CheckState{}, nil
	}
	return entity.CheckState{LastCheck: time.UnixMilli(millis)}, nil
}

// advanceLastCheck stores now as the last check time unless a later time is
// already recorded.
func (s updateState) advanceLastCheck(ctx context.Context, now time.Time) error {
	current, err := s.checkState(ctx)
	if err != nil {
		return err
	}
	if !current.LastCheck.IsZero() && !now.After(current.LastCheck) {
		return nil
	}
	if err := s.store.SetInt64(ctx, KeyLastCheck, now.UnixMilli()); err != nil {
		return fmt.Errorf("write %s: %w", KeyLastCheck, err)
	}
	return nil
}

func (s updateState) downloadHandle(ctx context.Context) (entity.DownloadHandle, bool, error) {
	id, ok, err := s.store.GetInt64(ctx, KeyDownloadID)
	if err != nil {
		return entity.DownloadHandle{}, false, fmt.Errorf("read %s: %w", KeyDownloadID, err)
	}
	return entity.DownloadHandle{ID: id}, ok, nil
}

func (s updateState) setDownloadHandle(ctx context.Context, handle entity.DownloadHandle) error {
	if err := s.store.SetInt64(ctx, KeyDownloadID, handle.ID); err != nil {
		return fmt.Errorf("write %s: %w", KeyDownloadID, err)
	}
	return nil
}

func (s updateState) clearDownloadHandle(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyDownloadID); err != nil {
		return fmt.Errorf("delete %s: %w", KeyDownloadID, err)
	}
	return nil
}
