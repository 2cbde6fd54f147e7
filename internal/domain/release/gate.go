package release

import "time"

// DefaultCheckInterval is the minimum time between two update checks.
const DefaultCheckInterval = 6 * time.Hour

// ShouldCheck reports whether more than interval elapsed since last.
// A zero last means no check ever happened and is read as the Unix epoch.
func ShouldCheck(now, last time.Time, interval time.Duration) bool {
	if last.IsZero() {
		last = time.UnixMilli(0)
	}
	return now.Sub(last) > interval
}
