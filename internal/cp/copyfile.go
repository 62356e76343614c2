package cp

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/fcoreutils/fcp/internal/platform"
)

// copyFileWithMeta copies one non-directory entry according to its
// snapshot. Each case is terminal on match: keep a symlink as a symlink
// when not dereferencing, hard-link or symlink instead of copying when
// asked, recreate pipes met during recursion, and otherwise produce
// contents through the strategy chain with attribute preservation after.
func (e *engine) copyFileWithMeta(src, dst string, m meta) error {
	switch {
	case m.isSymlink() && e.cfg.Dereference == DerefNever:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if err := os.Symlink(target, dst); err != nil {
			return err
		}
		e.stats.AddSymlinksCreated(1)
		return nil

	case e.cfg.Link:
		if err := os.Link(src, dst); err != nil {
			return err
		}
		e.stats.AddHardlinksCreated(1)
		return nil

	case e.cfg.SymbolicLink:
		if err := os.Symlink(src, dst); err != nil {
			return err
		}
		e.stats.AddSymlinksCreated(1)
		return nil

	case e.cfg.Recursive && m.isFIFO():
		if err := unix.Mkfifo(dst, m.perm()); err != nil {
			return fmt.Errorf("mkfifo: %w", err)
		}
		e.stats.AddFilesCopied(1)
		return preserve(m, dst, e.cfg)
	}

	result, err := e.copier.CopyFile(src, dst)
	if err != nil {
		return err
	}
	e.stats.AddFilesCopied(1)
	e.stats.AddBytesCopied(result.BytesWritten)
	switch result.Method {
	case platform.Reflink:
		e.stats.AddFilesCloned(1)
	case platform.CopyFileRange:
		e.stats.AddFilesRangeCopied(1)
	default:
		e.stats.AddFilesBuffered(1)
	}
	return preserve(m, dst, e.cfg)
}
