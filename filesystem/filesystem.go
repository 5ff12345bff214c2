// Package filesystem routes every file operation through an afero backend.
//
// Episodes, logs and the config file are written via API(), so tests can swap in an
// in-memory or failing filesystem.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	SetFs(afero.NewMemMapFs())
}

// SetFs installs fs as the backend, e.g. afero.NewReadOnlyFs over another filesystem.
func SetFs(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
