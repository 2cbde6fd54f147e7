// Package updater fetches release metadata from the GitHub releases API.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/release"
	"github.com/smartsystems/chatshell/internal/logging"
)

const (
	// DefaultOwner and DefaultRepo identify the published Android shell.
	DefaultOwner = "alonsobasauri"
	DefaultRepo  = "smartsystems-chat-android"

	// githubAPIBase is the root of the GitHub REST API.
	githubAPIBase = "https://api.github.com"

	// acceptHeader selects the v3 JSON representation.
	acceptHeader = "application/vnd.github.v3+json"

	// DefaultConnectTimeout bounds establishing the TCP/TLS connection.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultReadTimeout bounds waiting for the response.
	DefaultReadTimeout = 10 * time.Second

	// Maximum release payload size (4MB) - release notes are free text.
	maxResponseSize = 4 * 1024 * 1024

	defaultUserAgent = "chatshell"
)

var (
	// ErrUnexpectedStatus is returned for any non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMissingTag is returned when the release carries no tag name.
	ErrMissingTag = errors.New("release has no tag name")
	// ErrNoPackageAsset is returned when no asset has the package extension.
	ErrNoPackageAsset = errors.New("release has no installable package asset")
)

// githubRelease is the subset of the GitHub release payload we read.
// Body is optional and decodes to "" when absent or null.
type githubRelease struct {
	TagName     string        `json:"tag_name"`
	Body        string        `json:"body"`
	HTMLURL     string        `json:"html_url"`
	PublishedAt *time.Time    `json:"published_at"`
	Assets      []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Options configures a GitHubFetcher. Zero values take the defaults.
type Options struct {
	// APIURL is the full "latest release" endpoint.
	APIURL           string
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	PackageExtension string
	UserAgent        string
}

// LatestReleaseURL returns the latest-release endpoint for owner/repo.
func LatestReleaseURL(owner, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", githubAPIBase, owner, repo)
}

// GitHubFetcher implements port.ReleaseFetcher using the GitHub API.
type GitHubFetcher struct {
	client    *http.Client
	apiURL    string
	ext       string
	userAgent string
}

// NewGitHubFetcher creates a fetcher with bounded connect and read timeouts.
func NewGitHubFetcher(opts Options) *GitHubFetcher {
	if opts.APIURL == "" {
		opts.APIURL = LatestReleaseURL(DefaultOwner, DefaultRepo)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.PackageExtension == "" {
		opts.PackageExtension = release.DefaultPackageExtension
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
	}

	return &GitHubFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.ConnectTimeout + opts.ReadTimeout,
		},
		apiURL:    opts.APIURL,
		ext:       opts.PackageExtension,
		userAgent: opts.UserAgent,
	}
}

// FetchLatestRelease issues one GET against the release endpoint.
// No retry is attempted; the caller's check interval is the retry.
func (g *GitHubFetcher) FetchLatestRelease(ctx context.Context) (*entity.ReleaseDescriptor, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	rel, err := parseRelease(io.LimitReader(resp.Body, maxResponseSize), g.ext)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("version", rel.VersionName).
		Int("code", rel.VersionCode).
		Str("download_url", rel.DownloadURL).
		Msg("fetched latest release")

	return rel, nil
}

// parseRelease decodes a release payload and selects its package asset.
func parseRelease(r io.Reader, ext string) (*entity.ReleaseDescriptor, error) {
	var payload githubRelease
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	name := release.NormalizeName(payload.TagName)
	if name == "" {
		return nil, ErrMissingTag
	}

	assets := make([]release.Asset, 0, len(payload.Assets))
	for _, a := range payload.Assets {
		assets = append(assets, release.Asset{Name: a.Name, DownloadURL: a.BrowserDownloadURL})
	}
	asset, ok := release.SelectPackageAsset(assets, ext)
	if !ok {
		return nil, fmt.Errorf("%w (%s, tag %s)", ErrNoPackageAsset, ext, payload.TagName)
	}

	rel := &entity.ReleaseDescriptor{
		VersionName:  name,
		VersionCode:  release.VersionCode(name),
		DownloadURL:  asset.DownloadURL,
		ReleaseNotes: payload.Body,
		ReleaseURL:   payload.HTMLURL,
	}
	if payload.PublishedAt != nil {
		rel.PublishedAt = *payload.PublishedAt
	}
	return rel, nil
}
