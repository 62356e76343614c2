//go:build !linux

package platform

import (
	"errors"
	"fmt"
)

// newChain assembles the chain for platforms without a clone or in-kernel
// copy primitive: everything lands on buffered read/write. Demanding
// --reflink=always here can only fail, which the stand-in strategy makes
// explicit per file.
func newChain(mode ReflinkMode) []Strategy {
	if mode == ReflinkAlways {
		return []Strategy{unsupportedReflink{}}
	}
	return []Strategy{readWriteStrategy{}}
}

// unsupportedReflink rejects every copy on behalf of a clone strategy the
// platform does not have.
type unsupportedReflink struct{}

func (unsupportedReflink) Method() CopyMethod { return Reflink }

func (unsupportedReflink) Fallback(error) bool { return false }

func (unsupportedReflink) Copy(p CopyParams) error {
	return fmt.Errorf("failed to clone '%s' to '%s': %w", p.SrcPath, p.DstPath, errors.ErrUnsupported)
}
