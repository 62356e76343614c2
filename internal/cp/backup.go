package cp

import (
	"fmt"
	"os"
)

// makeBackup renames an existing dst out of the way per the backup mode.
// A missing dst is a no-op in every mode. The relocation is one rename,
// atomic within a filesystem.
func makeBackup(dst string, mode BackupMode, suffix string) error {
	if mode == BackupNone {
		return nil
	}
	if _, err := os.Stat(dst); err != nil {
		return nil
	}

	var target string
	switch mode {
	case BackupSimple:
		target = dst + suffix
	case BackupNumbered:
		target = numberedBackupPath(dst)
	case BackupExisting:
		if _, err := os.Lstat(dst + ".~1~"); err == nil {
			target = numberedBackupPath(dst)
		} else {
			target = dst + suffix
		}
	}
	return os.Rename(dst, target)
}

// numberedBackupPath finds the first unused <dst>.~N~ name, counting from 1.
func numberedBackupPath(dst string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.~%d~", dst, n)
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}
