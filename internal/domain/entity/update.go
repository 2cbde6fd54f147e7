// Package entity defines domain entities for chatshell.
package entity

import "time"

// InstalledVersion identifies the running build.
type InstalledVersion struct {
	// Code is the ordered integer derived from Name.
	Code int
	// Name is the display version string, e.g. "1.2.3".
	Name string
}

// ReleaseDescriptor describes a candidate update fetched from the release API.
// It is never persisted.
type ReleaseDescriptor struct {
	// VersionName is the tag with its "v" prefix removed.
	VersionName string
	// VersionCode is derived from VersionName.
	VersionCode int
	// DownloadURL points at the installable package asset.
	DownloadURL string
	// ReleaseNotes is the free-text release body (empty when absent).
	ReleaseNotes string
	// ReleaseURL is the human-facing release page (optional).
	ReleaseURL string
	// PublishedAt is when the release was published (optional).
	PublishedAt time.Time
}

// CheckState tracks when the last update check happened.
type CheckState struct {
	LastCheck time.Time
}

// DownloadHandle correlates an enqueued download with its completion notification.
type DownloadHandle struct {
	ID int64
}

// UpdateStatus represents the outcome of one update cycle.
type UpdateStatus int

const (
	// UpdateStatusUnknown means no check ran (gate closed, offline or dev build).
	UpdateStatusUnknown UpdateStatus = iota
	// UpdateStatusUpToDate means the installed version is the latest.
	UpdateStatusUpToDate
	// UpdateStatusAvailable means a newer version exists but was not downloaded.
	UpdateStatusAvailable
	// UpdateStatusDownloading means the package download was enqueued.
	UpdateStatusDownloading
	// UpdateStatusFailed means the download could not be enqueued.
	UpdateStatusFailed
)

// String returns a human-readable string for the update status.
func (s UpdateStatus) String() string {
	switch s {
	case UpdateStatusUpToDate:
		return "up-to-date"
	case UpdateStatusAvailable:
		return "available"
	case UpdateStatusDownloading:
		return "downloading"
	case UpdateStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
