// Package build provides domain entities for build information.
package build

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// IsDevBuild reports whether the binary was built without a release version.
func (i Info) IsDevBuild() bool {
	return i.Version == "" || i.Version == "dev"
}

// Contributors returns the list of project contributors.
func Contributors() []string {
	return []string{"smartsystems"}
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/alonsobasauri/smartsystems-chat-android"
}
