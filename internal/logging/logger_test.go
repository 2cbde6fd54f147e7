package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, zerolog.InfoLevel))
		})
	}
}

func TestNew_JSONToStderrAndFile(t *testing.T) {
	var stderr bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	cfg.File = filepath.Join(t.TempDir(), "logs", "chatshell.log")

	logger, closer := newLogger(cfg, &stderr)
	logger.Info().Str("k", "v").Msg("hello")
	logger.Debug().Msg("filtered")
	require.NoError(t, closer.Close())

	assert.Contains(t, stderr.String(), `"message":"hello"`)
	assert.NotContains(t, stderr.String(), "filtered")

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CHATSHELL_LOG_LEVEL", "debug")
	t.Setenv("CHATSHELL_LOG_FORMAT", "json")

	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestWithCheckID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	ctx, id := WithCheckID(ctx)
	FromContext(ctx).Info().Msg("checking")

	assert.Len(t, id, 36)
	assert.Contains(t, buf.String(), `"check_id":"`+id+`"`)
}

func TestRecoverPanic(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	assert.NotPanics(t, func() {
		defer RecoverPanic(ctx, "test")
		panic("boom")
	})
	assert.Contains(t, buf.String(), "recovered from panic")
	assert.Contains(t, buf.String(), `"panic":"boom"`)
}
