//go:build darwin

package cp

import (
	"syscall"
	"time"
)

// atimeFromStat returns the access time from a syscall.Stat_t.
func atimeFromStat(st *syscall.Stat_t) time.Time {
	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
}

// devFromStat returns the device number from a syscall.Stat_t.
func devFromStat(st *syscall.Stat_t) uint64 {
	return uint64(st.Dev) //nolint:gosec // G115: dev_t is int32 on darwin, always non-negative
}

// modeFromStat returns the raw st_mode bits from a syscall.Stat_t.
func modeFromStat(st *syscall.Stat_t) uint32 {
	return uint32(st.Mode)
}
