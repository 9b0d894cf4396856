//go:build windows

package textfile

import "io/fs"

// Windows ACLs don't map to POSIX-style permission bits, so the open call is
// left to report access problems on this platform.
func ensureReadable(_ string, _ fs.FileInfo) error {
	return nil
}
