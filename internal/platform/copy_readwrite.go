package platform

import (
	"io"
	"sync"
)

// Buffer sizing for the read/write path. Each worker checks its scratch
// buffer out of a pool and keeps it across files; an oversized buffer is
// shrunk once a much smaller file comes along, so one huge copy does not
// pin 4 MiB per worker for the rest of the run.
const (
	minBufferSize    = 8 << 10   // floor; zero-length files still get a valid buffer
	maxBufferSize    = 4 << 20   // per-worker cap
	shrinkBufferSize = 512 << 10 // only buffers above this are shrink candidates
)

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, minBufferSize)
		return &b
	},
}

// sizeBuffer returns the buffer to use for a file of length need, growing
// or shrinking buf per the sizing policy above.
func sizeBuffer(buf []byte, need int64) []byte {
	want := need
	if want < minBufferSize {
		want = minBufferSize
	}
	if want > maxBufferSize {
		want = maxBufferSize
	}
	switch {
	case int64(len(buf)) < want:
		return make([]byte, want)
	case len(buf) > shrinkBufferSize && want < int64(len(buf))/4:
		return make([]byte, want)
	}
	return buf
}

// readWriteStrategy copies through a pooled user-space buffer. It is the
// path of last resort: always available, never falls back, and surfaces
// genuine I/O errors only.
type readWriteStrategy struct{}

func (readWriteStrategy) Method() CopyMethod { return ReadWrite }

func (readWriteStrategy) Fallback(error) bool { return false }

func (readWriteStrategy) Copy(p CopyParams) error {
	preallocate(p.Dst, p.Size)

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	*bufp = sizeBuffer(*bufp, p.Size)

	buf := *bufp
	for {
		n, err := p.Src.Read(buf)
		if n > 0 {
			if _, werr := p.Dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
