package platform

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestFile creates a file with the given content and returns its path.
func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// randomData returns size bytes of random content.
func randomData(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

func TestReadWriteRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"small", 512},
		{"one_buffer", minBufferSize},
		{"large", 5 << 20}, // larger than the 4 MiB buffer cap
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			content := randomData(t, tt.size)
			src := writeTestFile(t, dir, "src.bin", content)
			dst := filepath.Join(dir, "dst.bin")

			copier := NewCopierWith(readWriteStrategy{})
			result, err := copier.CopyFile(src, dst)
			require.NoError(t, err)

			assert.Equal(t, ReadWrite, result.Method)
			assert.Equal(t, int64(tt.size), result.BytesWritten)

			got, err := os.ReadFile(dst)
			require.NoError(t, err)
			require.True(t, bytes.Equal(content, got), "content mismatch after read/write copy")
		})
	}
}

func TestCopyFileTruncatesExistingDst(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "src.txt", []byte("short"))
	dst := writeTestFile(t, dir, "dst.txt", []byte("a much longer destination file"))

	copier := NewCopierWith(readWriteStrategy{})
	_, err := copier.CopyFile(src, dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()

	copier := NewCopierWith(readWriteStrategy{})
	_, err := copier.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

// brokenStrategy writes garbage before failing, to prove the chain rewinds
// the destination between attempts.
type brokenStrategy struct {
	err     error
	garbage []byte
}

func (brokenStrategy) Method() CopyMethod { return CopyFileRange }

func (b brokenStrategy) Fallback(err error) bool { return err == b.err }

func (b brokenStrategy) Copy(p CopyParams) error {
	if len(b.garbage) > 0 {
		if _, err := p.Dst.Write(b.garbage); err != nil {
			return err
		}
	}
	return b.err
}

func TestChainFallsThroughAndRewinds(t *testing.T) {
	dir := t.TempDir()
	content := []byte("the real content")
	src := writeTestFile(t, dir, "src.txt", content)
	dst := filepath.Join(dir, "dst.txt")

	fallbackErr := os.ErrDeadlineExceeded // any distinct sentinel
	copier := NewCopierWith(
		brokenStrategy{err: fallbackErr, garbage: []byte("PARTIAL JUNK THAT MUST DISAPPEAR")},
		readWriteStrategy{},
	)

	result, err := copier.CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, ReadWrite, result.Method)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got, "partial bytes from the failed strategy leaked through")
}

func TestChainStopsOnTerminalError(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "src.txt", []byte("content"))
	dst := filepath.Join(dir, "dst.txt")

	terminal := os.ErrPermission
	copier := NewCopierWith(
		terminalWrapper{brokenStrategy{err: terminal}},
		readWriteStrategy{},
	)
	_, err := copier.CopyFile(src, dst)
	require.ErrorIs(t, err, terminal)
}

// terminalWrapper forces Fallback to false regardless of the error.
type terminalWrapper struct{ Strategy }

func (terminalWrapper) Fallback(error) bool { return false }

func TestParseReflinkMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ReflinkMode
		wantErr bool
	}{
		{"auto", ReflinkAuto, false},
		{"always", ReflinkAlways, false},
		{"never", ReflinkNever, false},
		{"sometimes", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReflinkMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopyMethodString(t *testing.T) {
	assert.Equal(t, "read_write", ReadWrite.String())
	assert.Equal(t, "copy_file_range", CopyFileRange.String())
	assert.Equal(t, "reflink", Reflink.String())
	assert.Equal(t, "unknown", CopyMethod(99).String())
}
