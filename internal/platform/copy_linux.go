//go:build linux

package platform

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// newChain assembles the Linux strategy order: clone when allowed, then
// the in-kernel byte copy, then buffered read/write. ReflinkAlways pins
// the chain to the clone alone, so its failure is the result.
func newChain(mode ReflinkMode) []Strategy {
	switch mode {
	case ReflinkAlways:
		return []Strategy{&reflinkStrategy{mode: mode}}
	case ReflinkNever:
		return []Strategy{copyRangeStrategy{}, readWriteStrategy{}}
	default:
		return []Strategy{&reflinkStrategy{mode: mode}, copyRangeStrategy{}, readWriteStrategy{}}
	}
}

// reflinkStrategy clones file contents with the FICLONE ioctl. The first
// errno saying the filesystem cannot clone flips unsupported, and every
// later file skips the ioctl for the rest of the run.
type reflinkStrategy struct {
	mode        ReflinkMode
	unsupported atomic.Bool
}

func (*reflinkStrategy) Method() CopyMethod { return Reflink }

// Fallback: under Auto every clone failure falls through silently; under
// Always the failure is terminal.
func (s *reflinkStrategy) Fallback(error) bool { return s.mode != ReflinkAlways }

func (s *reflinkStrategy) Copy(p CopyParams) error {
	if s.mode != ReflinkAlways && s.unsupported.Load() {
		return unix.EOPNOTSUPP
	}
	err := unix.IoctlFileClone(int(p.Dst.Fd()), int(p.Src.Fd()))
	if err == nil {
		return nil
	}
	if cloneUnsupported(err) {
		s.unsupported.Store(true)
	}
	if s.mode == ReflinkAlways {
		return fmt.Errorf("failed to clone '%s' to '%s': %w", p.SrcPath, p.DstPath, err)
	}
	return err
}

// copyRangeStrategy loops copy_file_range(2) until the snapshot length
// has landed. Offsets are nil so the kernel advances both descriptors.
type copyRangeStrategy struct{}

func (copyRangeStrategy) Method() CopyMethod { return CopyFileRange }

func (copyRangeStrategy) Fallback(err error) bool { return fallbackCopyRange(err) }

// errSourceShrank reports a kernel EOF before the full snapshot length
// was copied: the file lost bytes between stat and copy.
var errSourceShrank = errors.New("source file shrank during copy")

func (copyRangeStrategy) Copy(p CopyParams) error {
	srcFd := int(p.Src.Fd())
	dstFd := int(p.Dst.Fd())

	remaining := p.Size
	for remaining > 0 {
		chunk := remaining
		if chunk > math.MaxInt {
			chunk = math.MaxInt
		}
		n, err := unix.CopyFileRange(srcFd, nil, dstFd, nil, int(chunk), 0)
		if err != nil {
			return err
		}
		if n == 0 {
			return errSourceShrank
		}
		remaining -= int64(n)
	}
	return nil
}
