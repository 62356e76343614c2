package cp

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// meta is the single metadata snapshot taken for one source entry. Every
// later decision about the entry (kind, device, mode bits, times, owner)
// reads this snapshot rather than the filesystem again.
type meta struct {
	info os.FileInfo
	st   *syscall.Stat_t
}

// statEntry snapshots path. Only DerefAlways follows a symlink;
// CommandLine and Never both record the link itself and differ later, in
// how the entry is copied.
func statEntry(path string, deref DerefMode) (meta, error) {
	var (
		info os.FileInfo
		err  error
	)
	if deref == DerefAlways {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		return meta{}, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return meta{}, fmt.Errorf("stat %s: no unix metadata", path)
	}
	return meta{info: info, st: st}, nil
}

func (m meta) isDir() bool     { return m.info.IsDir() }
func (m meta) isSymlink() bool { return m.info.Mode()&os.ModeSymlink != 0 }
func (m meta) isFIFO() bool    { return m.info.Mode()&os.ModeNamedPipe != 0 }

func (m meta) dev() uint64 { return devFromStat(m.st) }

// perm returns the permission, setuid/setgid and sticky bits in raw
// st_mode layout, ready for chmod.
func (m meta) perm() uint32 { return modeFromStat(m.st) & 0o7777 }

func (m meta) modTime() time.Time { return m.info.ModTime() }
func (m meta) atime() time.Time   { return atimeFromStat(m.st) }

func (m meta) owner() (uid, gid int) { return int(m.st.Uid), int(m.st.Gid) }
