// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only permissions.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DataDir returns the per-user directory for app, creating it if needed.
// It lives under os.UserConfigDir (e.g. ~/.config/<app> on Linux).
func DataDir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return EnsureDir(filepath.Join(base, app))
}

// DataFile is DataDir joined with name.
func DataFile(app, name string) (string, error) {
	dir, err := DataDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
