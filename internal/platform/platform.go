// Package platform produces file contents at a destination through an
// ordered chain of copy strategies: a copy-on-write clone where the
// filesystem supports one, an in-kernel byte copy where the syscall
// exists, and a pooled-buffer read/write loop as the path of last resort.
package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyMethod identifies which strategy produced a destination's content.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Reflink                  // FICLONE ioctl clone
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Reflink:
		return "reflink"
	default:
		return "unknown"
	}
}

// ReflinkMode controls whether content copies may or must be
// copy-on-write clones.
type ReflinkMode int

const (
	ReflinkAuto   ReflinkMode = iota // clone when possible, silently fall back
	ReflinkAlways                    // clone or fail
	ReflinkNever                     // never attempt a clone
)

// ParseReflinkMode parses a --reflink WHEN value.
func ParseReflinkMode(s string) (ReflinkMode, error) {
	switch s {
	case "auto":
		return ReflinkAuto, nil
	case "always":
		return ReflinkAlways, nil
	case "never":
		return ReflinkNever, nil
	}
	return ReflinkAuto, fmt.Errorf("invalid reflink mode '%s'", s)
}

// CopyParams describes one content copy. Src and Dst are open descriptors
// positioned at offset zero; Size is the source length taken from the
// caller's metadata snapshot. The paths are carried for diagnostics only.
type CopyParams struct {
	Src     *os.File
	Dst     *os.File
	SrcPath string
	DstPath string
	Size    int64
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// Strategy is a single content-copy mechanism in the fallback chain.
type Strategy interface {
	Method() CopyMethod
	// Copy transfers p.Size bytes from p.Src to p.Dst, both at offset zero.
	Copy(p CopyParams) error
	// Fallback reports whether err means the strategy is unavailable for
	// this file or filesystem, so the next strategy in the chain should run.
	Fallback(err error) bool
}

// Copier runs an ordered chain of copy strategies. A Copier is safe for
// concurrent use; per-run state such as the clone capability cache lives
// inside its strategies.
type Copier struct {
	chain []Strategy
}

// NewCopier builds the strategy chain for the current platform under the
// given reflink mode.
func NewCopier(mode ReflinkMode) *Copier {
	return &Copier{chain: newChain(mode)}
}

// NewCopierWith builds a Copier from an explicit chain. Tests use it to
// force a single strategy.
func NewCopierWith(strategies ...Strategy) *Copier {
	return &Copier{chain: strategies}
}

// Copy produces dst content from src, trying each strategy in order. An
// error that the failing strategy classifies as a fallback moves on to
// the next entry after rewinding both descriptors; anything else is
// returned as-is.
func (c *Copier) Copy(p CopyParams) (CopyResult, error) {
	for i, s := range c.chain {
		err := s.Copy(p)
		if err == nil {
			return CopyResult{BytesWritten: p.Size, Method: s.Method()}, nil
		}
		if i == len(c.chain)-1 || !s.Fallback(err) {
			return CopyResult{Method: s.Method()}, err
		}
		if err := rewind(p); err != nil {
			return CopyResult{Method: s.Method()}, err
		}
	}
	return CopyResult{}, errors.New("empty copy strategy chain")
}

// CopyFile copies the contents of the file at src to dst, creating or
// truncating dst. dst is created with src's mode bits, filtered through
// the process umask; callers that need exact modes restore them after.
func (c *Copier) CopyFile(src, dst string) (CopyResult, error) {
	in, err := os.Open(src)
	if err != nil {
		return CopyResult{}, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return CopyResult{}, err
	}
	adviseSequential(in)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return CopyResult{}, err
	}

	result, err := c.Copy(CopyParams{
		Src:     in,
		Dst:     out,
		SrcPath: src,
		DstPath: dst,
		Size:    info.Size(),
	})
	// A deferred write error can surface at close; do not mask it.
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return result, err
}

// rewind resets both descriptors between strategies: offsets back to zero
// and any partial destination bytes dropped.
func rewind(p CopyParams) error {
	if _, err := p.Src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind source: %w", err)
	}
	if _, err := p.Dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind destination: %w", err)
	}
	if err := p.Dst.Truncate(0); err != nil {
		return fmt.Errorf("truncate destination: %w", err)
	}
	return nil
}
