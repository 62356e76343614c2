//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves disk space for the destination before a buffered
// copy. Errors are ignored as fallocate is not supported on all
// filesystems.
func preallocate(f *os.File, size int64) {
	if size <= 0 {
		return
	}
	//nolint:errcheck // fallocate is advisory
	unix.Fallocate(int(f.Fd()), 0, 0, size)
}
