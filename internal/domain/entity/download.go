package entity

import "time"

// DownloadStatus is the lifecycle state of a download ledger record.
type DownloadStatus string

const (
	DownloadStatusPending    DownloadStatus = "pending"
	DownloadStatusRunning    DownloadStatus = "running"
	DownloadStatusSuccessful DownloadStatus = "successful"
	DownloadStatusFailed     DownloadStatus = "failed"
)

// IsFinal reports whether the download reached a terminal state.
func (s DownloadStatus) IsFinal() bool {
	return s == DownloadStatusSuccessful || s == DownloadStatusFailed
}

// DownloadRecord is one entry of the download manager's ledger.
type DownloadRecord struct {
	ID           int64
	URL          string
	Title        string
	Description  string
	Destination  string
	Status       DownloadStatus
	Bytes        int64
	Error        string
	AllowMetered bool
	AllowRoaming bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
