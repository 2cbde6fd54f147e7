package port

import "context"

// ConnectivityChecker reports whether the hosted site is reachable right now.
type ConnectivityChecker interface {
	IsConnected(ctx context.Context) bool
}
