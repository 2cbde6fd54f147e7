package release

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldCheck(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	interval := 6 * time.Hour

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"never checked", time.Time{}, true},
		{"epoch", time.UnixMilli(0), true},
		{"just checked", now, false},
		{"within interval", now.Add(-time.Hour), false},
		{"exact boundary", now.Add(-interval), false},
		{"one millisecond past", now.Add(-interval - time.Millisecond), true},
		{"long ago", now.Add(-72 * time.Hour), true},
		{"clock moved back", now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldCheck(now, tt.last, interval))
		})
	}
}
