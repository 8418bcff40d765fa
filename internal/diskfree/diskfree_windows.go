//go:build windows

// Package diskfree reports free space on the volume containing a path.
package diskfree

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Free returns the bytes available to the current user on the volume
// holding path.
func Free(path string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("encoding path %s: %w", path, err)
	}

	var avail, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &avail, &total, &totalFree); err != nil {
		return 0, fmt.Errorf("disk free space for %s: %w", path, err)
	}
	return avail, nil
}
