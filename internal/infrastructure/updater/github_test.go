package updater

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseV2 = `{
  "tag_name": "v2.0.0",
  "html_url": "https://github.com/o/r/releases/tag/v2.0.0",
  "published_at": "2026-04-02T10:00:00Z",
  "body": "## Changes\n- faster sync",
  "assets": [
    {"name": "checksums.txt", "browser_download_url": "https://github.com/o/r/releases/download/v2.0.0/checksums.txt"},
    {"name": "smartsystems-chat.apk", "browser_download_url": "https://github.com/o/r/releases/download/v2.0.0/smartsystems-chat.apk"}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubFetcher_FetchLatestRelease(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "chatshell/1.2.3", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(releaseV2))
	})

	fetcher := NewGitHubFetcher(Options{APIURL: srv.URL, UserAgent: "chatshell/1.2.3"})
	rel, err := fetcher.FetchLatestRelease(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2.0.0", rel.VersionName)
	assert.Equal(t, 20000, rel.VersionCode)
	assert.Equal(t, "https://github.com/o/r/releases/download/v2.0.0/smartsystems-chat.apk", rel.DownloadURL)
	assert.Equal(t, "## Changes\n- faster sync", rel.ReleaseNotes)
	assert.Equal(t, "https://github.com/o/r/releases/tag/v2.0.0", rel.ReleaseURL)
	assert.Equal(t, time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC), rel.PublishedAt.UTC())
}

func TestGitHubFetcher_NoPackageAsset(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","assets":[{"name":"source.zip","browser_download_url":"https://x/source.zip"}]}`))
	})

	rel, err := NewGitHubFetcher(Options{APIURL: srv.URL}).FetchLatestRelease(context.Background())

	assert.Nil(t, rel)
	assert.ErrorIs(t, err, ErrNoPackageAsset)
}

func TestGitHubFetcher_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rel, err := NewGitHubFetcher(Options{APIURL: srv.URL}).FetchLatestRelease(context.Background())

	assert.Nil(t, rel)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "500")
}

func TestGitHubFetcher_NonOKStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotModified, http.StatusForbidden, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			})

			_, err := NewGitHubFetcher(Options{APIURL: srv.URL}).FetchLatestRelease(context.Background())
			assert.ErrorIs(t, err, ErrUnexpectedStatus)
		})
	}
}

func TestGitHubFetcher_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	fetcher := NewGitHubFetcher(Options{
		APIURL:         srv.URL,
		ConnectTimeout: 50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
	})

	start := time.Now()
	rel, err := fetcher.FetchLatestRelease(context.Background())

	assert.Nil(t, rel)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestGitHubFetcher_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(releaseV2))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGitHubFetcher(Options{APIURL: srv.URL}).FetchLatestRelease(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseRelease(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
		want    string
	}{
		{
			name:    "notes absent",
			payload: `{"tag_name":"1.4.0","assets":[{"name":"a.apk","browser_download_url":"u"}]}`,
			want:    "1.4.0",
		},
		{
			name:    "notes null",
			payload: `{"tag_name":"v1.4.0","body":null,"assets":[{"name":"a.apk","browser_download_url":"u"}]}`,
			want:    "1.4.0",
		},
		{
			name:    "missing tag",
			payload: `{"assets":[{"name":"a.apk","browser_download_url":"u"}]}`,
			wantErr: ErrMissingTag,
		},
		{
			name:    "no assets",
			payload: `{"tag_name":"v1.4.0"}`,
			wantErr: ErrNoPackageAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := parseRelease(strings.NewReader(tt.payload), ".apk")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel.VersionName)
			assert.Empty(t, rel.ReleaseNotes)
			assert.True(t, rel.PublishedAt.IsZero())
		})
	}
}

func TestParseRelease_MalformedJSON(t *testing.T) {
	_, err := parseRelease(strings.NewReader(`{"tag_name":`), ".apk")
	assert.ErrorContains(t, err, "failed to decode release")
}

func TestLatestReleaseURL(t *testing.T) {
	assert.Equal(t,
		"https://api.github.com/repos/alonsobasauri/smartsystems-chat-android/releases/latest",
		LatestReleaseURL(DefaultOwner, DefaultRepo))
}
