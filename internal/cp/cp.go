// Package cp implements the copy engine behind the fcp command:
// per-source destination resolution, the overwrite conflict policy,
// recursive traversal with parallel file batches, a multi-strategy
// content copy, and attribute preservation.
package cp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fcoreutils/fcp/internal/platform"
	"github.com/fcoreutils/fcp/internal/stats"
)

// Result aggregates a whole run: one formatted diagnostic per failed
// source, the overall failure flag, and the run's counters. Err is set
// only when the run itself was cut short by context cancellation;
// per-source failures never set it.
type Result struct {
	Errors   []string
	HadError bool
	Err      error
	Stats    stats.Snapshot
}

// engine carries per-run state. The Config stays read-only; everything
// mutable (prompt reader, counters, the copier's clone cache) lives here.
type engine struct {
	cfg     *Config
	copier  *platform.Copier
	stats   *stats.Collector
	stdin   *bufio.Reader
	stderr  io.Writer
	workers int
	suffix  string
	stat    func(path string, deref DerefMode) (meta, error)
}

func newEngine(cfg *Config) *engine {
	stdin := io.Reader(os.Stdin)
	if cfg.Stdin != nil {
		stdin = cfg.Stdin
	}
	stderr := io.Writer(os.Stderr)
	if cfg.Stderr != nil {
		stderr = cfg.Stderr
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = "~"
	}
	return &engine{
		cfg:     cfg,
		copier:  platform.NewCopier(cfg.Reflink),
		stats:   stats.NewCollector(),
		stdin:   bufio.NewReader(stdin),
		stderr:  stderr,
		workers: workers,
		suffix:  suffix,
		stat:    statEntry,
	}
}

// defaultWorkers bounds the parallel batch width when the caller does not
// pick one.
func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > 8 {
		n = 8
	}
	return n
}

// Run copies every source to its resolved destination and reports the
// outcome. All sources are attempted; failures become formatted
// diagnostics in the result rather than aborting the run. Cancelling ctx
// stops new sources from being dispatched while started copies finish;
// the cancellation lands in Result.Err, not in the per-source
// diagnostics.
func Run(ctx context.Context, sources []string, dest string, cfg *Config) Result {
	e := newEngine(cfg)

	destDir := cfg.TargetDirectory
	if destDir == "" {
		destDir = dest
	}
	if destDir == "" {
		return Result{
			Errors:   []string{"cp: missing destination operand"},
			HadError: true,
			Stats:    e.stats.Snapshot(),
		}
	}

	intoDir := len(sources) > 1 || isDir(destDir) || cfg.TargetDirectory != ""
	if cfg.NoTargetDirectory {
		intoDir = false
	}

	var result Result
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		dst := destDir
		if intoDir {
			dst = filepath.Join(destDir, filepath.Base(src))
		}

		err := e.copySource(ctx, src, dst)
		if err == nil {
			if cfg.Verbose {
				fmt.Fprintf(e.stderr, "'%s' -> '%s'\n", src, dst)
			}
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Err = err
			break
		}
		e.stats.AddFilesFailed(1)
		result.Errors = append(result.Errors,
			fmt.Sprintf("cp: cannot copy '%s' to '%s': %s", src, dst, errorMessage(err)))
		result.HadError = true
	}
	result.Stats = e.stats.Snapshot()
	return result
}

// copySource applies the conflict policy for one source, then delegates
// the copy. Policy order: reject directories without recursive, then
// no-clobber, update, interactive, force, backup. A skip is a success.
func (e *engine) copySource(ctx context.Context, src, dst string) error {
	m, err := e.stat(src, e.cfg.Dereference)
	if err != nil {
		return err
	}

	if m.isDir() && !e.cfg.Recursive {
		return fmt.Errorf("omitting directory '%s'", src)
	}

	if dstInfo, err := os.Stat(dst); err == nil {
		if e.cfg.NoClobber {
			e.stats.AddFilesSkipped(1)
			return nil
		}
		if e.cfg.Update && !dstInfo.ModTime().Before(m.modTime()) {
			e.stats.AddFilesSkipped(1)
			return nil
		}
		if e.cfg.Interactive {
			ok, err := e.confirmOverwrite(dst)
			if err != nil {
				return err
			}
			if !ok {
				e.stats.AddFilesSkipped(1)
				return nil
			}
		}
		if e.cfg.Force && dstInfo.Mode().Perm()&0o222 == 0 {
			if err := os.Remove(dst); err != nil {
				return err
			}
		}
		if err := makeBackup(dst, e.cfg.Backup, e.suffix); err != nil {
			return err
		}
	}

	if m.isDir() {
		return e.copyTree(ctx, src, dst, m, m.dev())
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return e.copyFileWithMeta(src, dst, m)
}

// confirmOverwrite prompts on the error stream. Only "y"/"yes" in any
// case proceeds; end of input counts as no.
func (e *engine) confirmOverwrite(dst string) (bool, error) {
	fmt.Fprintf(e.stderr, "cp: overwrite '%s'? ", dst)
	line, err := e.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// isDir reports whether path is an existing directory, symlinks followed.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// errorMessage extracts the human part of an OS error, dropping the path
// and syscall prefixes the Go wrappers add: the diagnostic around it
// already names both paths.
func errorMessage(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err.Error()
	}
	var syscallErr *os.SyscallError
	if errors.As(err, &syscallErr) {
		return syscallErr.Err.Error()
	}
	return err.Error()
}
