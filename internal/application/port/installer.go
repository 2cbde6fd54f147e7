package port

import "context"

// PackageInstaller hands a downloaded package to the platform install flow.
type PackageInstaller interface {
	// Install launches the installer for the package at uri and grants it
	// read access to the file. It does not wait for the installer to finish.
	Install(ctx context.Context, uri string) error
}
