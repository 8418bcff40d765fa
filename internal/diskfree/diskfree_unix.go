//go:build !windows

// Package diskfree reports free space on the volume containing a path.
package diskfree

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Free returns the bytes available to the current user on the volume
// holding path.
func Free(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
