package cp

import (
	"context"
	"os"
	"path/filepath"
)

// pendingEntry is one classified child awaiting its copy.
type pendingEntry struct {
	src, dst string
	m        meta
}

// copyTree reproduces the directory at src under dst. rootDev is the
// device of the traversal root for one-file-system pruning. The listing
// is read once and classified into files and subdirectories; files copy
// first (fanning out for large batches), subdirectories recurse
// sequentially after, and the directory's own attributes apply last so a
// read-only source directory never blocks writing its children.
func (e *engine) copyTree(ctx context.Context, src, dst string, m meta, rootDev uint64) error {
	if e.cfg.OneFileSystem && m.dev() != rootDev {
		return nil
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	e.stats.AddDirsCreated(1)

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	var files, dirs []pendingEntry
	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDst := filepath.Join(dst, entry.Name())
		cm, err := e.stat(childSrc, e.cfg.Dereference)
		if err != nil {
			return err
		}
		if e.cfg.OneFileSystem && cm.dev() != rootDev {
			continue
		}
		child := pendingEntry{src: childSrc, dst: childDst, m: cm}
		if cm.isDir() {
			dirs = append(dirs, child)
		} else {
			files = append(files, child)
		}
	}

	err = forEach(ctx, e.workers, files, func(p pendingEntry) error {
		return e.copyFileWithMeta(p.src, p.dst, p.m)
	})
	if err != nil {
		return err
	}

	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.copyTree(ctx, d.src, d.dst, d.m, rootDev); err != nil {
			return err
		}
	}

	return preserve(m, dst, e.cfg)
}
