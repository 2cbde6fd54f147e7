// Package download holds naming rules for downloaded update artifacts.
package download

import (
	"net/url"
	"path/filepath"
	"strings"
)

const (
	// DefaultFilename is used when no valid filename can be determined.
	DefaultFilename = "download"

	// DefaultArtifactPrefix names downloaded update packages.
	DefaultArtifactPrefix = "smartsystems-chat"
)

// SanitizeFilename sanitizes a filename to prevent path traversal attacks.
// It extracts only the base name and handles edge cases like "." or "..".
func SanitizeFilename(name string) string {
	// filepath.Base only handles the OS-native separator.
	name = strings.ReplaceAll(name, "\\", "/")

	clean := filepath.Base(name)
	if clean == "." || clean == ".." || clean == "" || clean == "/" {
		return DefaultFilename
	}

	return clean
}

// ArtifactFilename returns the deterministic file name for an update package,
// e.g. ("smartsystems-chat", "1.2.3", ".apk") -> "smartsystems-chat-1.2.3.apk".
func ArtifactFilename(prefix, versionName, ext string) string {
	if prefix == "" {
		prefix = DefaultArtifactPrefix
	}
	version := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(versionName))
	return SanitizeFilename(prefix + "-" + version + ext)
}

// ExtractFilenameFromURI extracts the filename from a URI path component.
// Handles both URIs and plain paths. Returns DefaultFilename for edge cases.
func ExtractFilenameFromURI(uri string) string {
	if uri == "" {
		return DefaultFilename
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return SanitizeFilename(uri)
	}

	return SanitizeFilename(parsed.Path)
}
