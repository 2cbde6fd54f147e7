package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smartsystems/chatshell/internal/domain/entity"
)

// StatusView is everything the status command shows.
type StatusView struct {
	Version       string
	LastCheck     time.Time
	CheckInterval time.Duration
	Page          string
	Online        bool
	PendingID     int64
	SchemaVersion int64
	Downloads     []*entity.DownloadRecord
}

// StatusRenderer renders the state of the updater.
type StatusRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewStatusRenderer creates a new status renderer with the given theme.
func NewStatusRenderer(theme *Theme) *StatusRenderer {
	return &StatusRenderer{theme: theme, now: time.Now}
}

// Render renders v as aligned key/value lines followed by the recent downloads.
func (r *StatusRenderer) Render(v StatusView) string {
	keyStyle := r.theme.Subtle.Width(14)
	valStyle := r.theme.Normal
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	line := func(icon, k, val string) string {
		return fmt.Sprintf("  %s %s %s", iconStyle.Render(icon), keyStyle.Render(k), valStyle.Render(val))
	}

	pageIcon := IconGlobe
	if !v.Online {
		pageIcon = IconOffline
	}

	lines := []string{
		"",
		line(IconVersion, "Installed", v.Version),
		line(IconClock, "Last check", r.formatLastCheck(v.LastCheck)),
		line(IconClock, "Next check", r.formatNextCheck(v.LastCheck, v.CheckInterval)),
		line(pageIcon, "Page", v.Page),
		line(IconDownload, "Pending", formatPending(v.PendingID)),
		line(IconDatabase, "Schema", fmt.Sprintf("v%d", v.SchemaVersion)),
	}

	if len(v.Downloads) > 0 {
		lines = append(lines, "", "  "+r.theme.Title.Render("Recent downloads"))
		for _, d := range v.Downloads {
			lines = append(lines, r.renderDownload(d))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func (r *StatusRenderer) renderDownload(d *entity.DownloadRecord) string {
	var status string
	switch d.Status {
	case entity.DownloadStatusSuccessful:
		status = r.theme.SuccessStyle.Render(IconCheck)
	case entity.DownloadStatusFailed:
		status = r.theme.ErrorStyle.Render(IconX)
	default:
		status = r.theme.WarningStyle.Render(IconDownload)
	}

	detail := d.Destination
	if d.Error != "" {
		detail = d.Error
	}

	return fmt.Sprintf("  %s #%d %s %s %s",
		status,
		d.ID,
		r.theme.Subtle.Render(d.CreatedAt.Local().Format("2006-01-02 15:04")),
		r.theme.Normal.Render(d.Description),
		r.theme.Subtle.Render(detail),
	)
}

func (r *StatusRenderer) formatLastCheck(last time.Time) string {
	if last.IsZero() || last.UnixMilli() <= 0 {
		return "never"
	}
	ago := r.now().Sub(last).Truncate(time.Second)
	if ago < 0 {
		ago = 0
	}
	return fmt.Sprintf("%s (%s ago)", last.Local().Format("2006-01-02 15:04:05"), ago)
}

func (r *StatusRenderer) formatNextCheck(last time.Time, interval time.Duration) string {
	if last.IsZero() || last.UnixMilli() <= 0 {
		return "now"
	}
	next := last.Add(interval)
	if !next.After(r.now()) {
		return "now"
	}
	return next.Local().Format("2006-01-02 15:04:05")
}

func formatPending(id int64) string {
	if id == 0 {
		return "none"
	}
	return fmt.Sprintf("download #%d", id)
}
