package logging

import (
	"context"
	"runtime/debug"
)

// RecoverPanic logs a panic raised in a background goroutine instead of
// letting it take down the process. Use it with defer.
func RecoverPanic(ctx context.Context, where string) {
	if r := recover(); r != nil {
		FromContext(ctx).Error().
			Str("where", where).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("recovered from panic")
	}
}
