//go:build !windows

package textfile

import (
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// ensureReadable reports whether the permission bits deny the current user
// read access, even when elevated privileges would let the open succeed.
func ensureReadable(path string, info fs.FileInfo) error {
	perms := info.Mode().Perm()

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}

	fileUID := int(stat.Uid)
	fileGID := int(stat.Gid)

	if fileUID == os.Geteuid() {
		if perms&0o400 == 0 {
			return fmt.Errorf("permission denied reading %s: owner has no read bit", path)
		}
		return nil
	}

	if inGroup(fileGID) {
		if perms&0o040 == 0 {
			return fmt.Errorf("permission denied reading %s: group has no read bit", path)
		}
		return nil
	}

	if perms&0o004 == 0 {
		return fmt.Errorf("permission denied reading %s: others have no read bit", path)
	}

	return nil
}

func inGroup(gid int) bool {
	if gid == os.Getegid() {
		return true
	}
	groups, err := syscall.Getgroups()
	if err != nil {
		return false
	}
	for _, g := range groups {
		if g == gid {
			return true
		}
	}
	return false
}
