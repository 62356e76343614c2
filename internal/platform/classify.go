package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// fallbackCopyRange reports whether a copy_file_range failure means the
// syscall is unavailable for this src/dst pair and the next strategy
// should run: EINVAL and ENOSYS from old or filtering kernels, EXDEV from
// cross-filesystem pairs.
func fallbackCopyRange(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, unix.EINVAL),
		errors.Is(err, unix.ENOSYS),
		errors.Is(err, unix.EXDEV):
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fallbackCopyRange(pathErr.Err)
	}
	return false
}

// cloneUnsupported reports whether a FICLONE failure marks the filesystem
// as unable to clone at all, so later files skip the ioctl entirely.
// EXDEV is not in the set: a cross-device pair says nothing about either
// filesystem on its own.
func cloneUnsupported(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, unix.EOPNOTSUPP),
		errors.Is(err, unix.ENOTTY),
		errors.Is(err, unix.ENOSYS):
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return cloneUnsupported(pathErr.Err)
	}
	return false
}
