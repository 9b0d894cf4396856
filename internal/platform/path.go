//go:build !windows

package platform

import "path/filepath"

// Normalize cleans path for use with the os package.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}
