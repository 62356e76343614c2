package cp

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

// writeFile creates path with the given content, creating parents as
// needed.
func writeFile(t *testing.T, path string, data []byte, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, perm))
}

func hashFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	h := blake3.Sum256(data)
	return h[:]
}

// treeDigest hashes the structure of the tree rooted at root: relative
// path and kind of every entry, file contents, and symlink targets.
// Two trees with the same digest hold the same names and bytes.
func treeDigest(t *testing.T, root string) string {
	t.Helper()

	h := blake3.New()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		h.Write([]byte(rel))
		h.Write([]byte{0})

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			h.Write([]byte("symlink:" + target))
		case d.IsDir():
			h.Write([]byte("dir"))
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			h.Write([]byte("file:"))
			h.Write(data)
		}
		h.Write([]byte{0})
		return nil
	})
	require.NoError(t, err)
	return fmt.Sprintf("%x", h.Sum(nil))
}
