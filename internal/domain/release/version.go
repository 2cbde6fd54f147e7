// Package release holds the pure rules of the update workflow: version code
// encoding, the check gate and package asset selection.
package release

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smartsystems/chatshell/internal/domain/entity"
)

const (
	majorWeight = 10000
	minorWeight = 100

	// defaultMajor applies when the major component is missing or not numeric.
	defaultMajor = 1

	// DefaultInstalledName is used when the build carries no version name.
	DefaultInstalledName = "1.0.0"
)

// leadingDigits matches the numeric head of a version component ("3" in "3-beta").
var leadingDigits = regexp.MustCompile(`^\d+`)

// Encode returns major*10000 + minor*100 + patch.
func Encode(major, minor, patch int) int {
	return major*majorWeight + minor*minorWeight + patch
}

// NormalizeName strips whitespace and a leading "v" from a tag ("v1.2.3" -> "1.2.3").
func NormalizeName(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

// VersionCode converts a version string into its ordered integer code.
// Pre-release and build suffixes are dropped, so "1.2.3" and "1.2.3-beta"
// share the code 10203.
func VersionCode(name string) int {
	parts := strings.Split(NormalizeName(name), ".")
	major := component(parts, 0, defaultMajor)
	minor := component(parts, 1, 0)
	patch := component(parts, 2, 0)
	return Encode(major, minor, patch)
}

func component(parts []string, i, fallback int) int {
	if i >= len(parts) {
		return fallback
	}
	digits := leadingDigits.FindString(parts[i])
	if digits == "" {
		return fallback
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}
	return n
}

// Installed builds the InstalledVersion for a build version string.
func Installed(name string) entity.InstalledVersion {
	name = NormalizeName(name)
	if name == "" {
		name = DefaultInstalledName
	}
	return entity.InstalledVersion{
		Code: VersionCode(name),
		Name: name,
	}
}

// IsNewer reports whether candidate strictly supersedes installed.
// Equal codes are never an update, whatever their names look like.
func IsNewer(candidate entity.ReleaseDescriptor, installed entity.InstalledVersion) bool {
	return candidate.VersionCode > installed.Code
}
