package cp

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// preserve applies the enabled attribute set from a source snapshot to
// dst. Attributes are independent and reapplying the same snapshot is
// idempotent. Timestamps and ownership use non-dereferencing calls, so
// preservation also lands on a freshly created symlink rather than its
// target. Ownership runs last; EPERM from an unprivileged chown is
// expected and swallowed.
func preserve(m meta, dst string, cfg *Config) error {
	if cfg.PreserveMode {
		if err := unix.Chmod(dst, m.perm()); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
	}

	if cfg.PreserveTimestamps {
		times := []unix.Timespec{
			unix.NsecToTimespec(m.atime().UnixNano()),
			unix.NsecToTimespec(m.modTime().UnixNano()),
		}
		if err := unix.UtimesNanoAt(unix.AT_FDCWD, dst, times, unix.AT_SYMLINK_NOFOLLOW); err != nil {
			return fmt.Errorf("utimensat: %w", err)
		}
	}

	if cfg.PreserveOwnership {
		uid, gid := m.owner()
		if err := unix.Lchown(dst, uid, gid); err != nil && !errors.Is(err, unix.EPERM) {
			return fmt.Errorf("lchown: %w", err)
		}
	}

	return nil
}
