//go:build !linux

package platform

import "os"

// adviseSequential is a no-op on platforms without posix_fadvise.
func adviseSequential(_ *os.File) {}
