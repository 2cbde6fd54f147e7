// Package repository defines persistence interfaces for domain data.
package repository

import "context"

// StateRepository is a narrow key-value store for small integer settings
// such as the last update check time and the tracked download id.
type StateRepository interface {
	// GetInt64 returns the value stored under key.
	// ok is false when the key has never been written.
	GetInt64(ctx context.Context, key string) (value int64, ok bool, err error)

	// SetInt64 stores value under key, replacing any previous value.
	SetInt64(ctx context.Context, key string, value int64) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
