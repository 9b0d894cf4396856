//go:build windows

package platform

import (
	"path/filepath"
	"strings"
)

// Normalize cleans path and adds the extended-length prefix to absolute
// drive paths so deep fixture trees stay addressable.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	cleaned := filepath.Clean(path)
	if len(cleaned) < 2 || cleaned[1] != ':' {
		return cleaned
	}
	if filepath.IsAbs(cleaned) && !strings.HasPrefix(cleaned, `\\?\`) {
		return `\\?\` + cleaned
	}
	return cleaned
}
