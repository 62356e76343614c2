//go:build linux

package cp

import (
	"syscall"
	"time"
)

// atimeFromStat returns the access time from a syscall.Stat_t.
func atimeFromStat(st *syscall.Stat_t) time.Time {
	return time.Unix(st.Atim.Sec, st.Atim.Nsec)
}

// devFromStat returns the device number from a syscall.Stat_t.
func devFromStat(st *syscall.Stat_t) uint64 {
	return st.Dev
}

// modeFromStat returns the raw st_mode bits from a syscall.Stat_t.
func modeFromStat(st *syscall.Stat_t) uint32 {
	return st.Mode
}
