// Package port defines interfaces for external dependencies.
package port

import (
	"context"

	"github.com/smartsystems/chatshell/internal/domain/entity"
)

// ReleaseFetcher retrieves the latest published release from a release-hosting API.
type ReleaseFetcher interface {
	// FetchLatestRelease performs one request and returns the parsed release.
	// Any network, status or parse problem is returned as an error; callers
	// on the update path treat every error as "no update available".
	FetchLatestRelease(ctx context.Context) (*entity.ReleaseDescriptor, error)
}

// UpdatePrompter asks the user whether a release should be installed.
type UpdatePrompter interface {
	// ConfirmUpdate presents the version name and release notes and reports
	// whether the user accepted the download.
	ConfirmUpdate(ctx context.Context, release entity.ReleaseDescriptor) (bool, error)
}
