package platform

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestFallbackCopyRange(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"einval", unix.EINVAL, true},
		{"enosys", unix.ENOSYS, true},
		{"exdev", unix.EXDEV, true},
		{"eio", unix.EIO, false},
		{"enospc", unix.ENOSPC, false},
		{"wrapped in path error", &os.PathError{Op: "copy_file_range", Path: "x", Err: unix.EXDEV}, true},
		{"wrapped with fmt", fmt.Errorf("copy: %w", unix.EINVAL), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackCopyRange(tt.err))
		})
	}
}

func TestCloneUnsupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eopnotsupp", unix.EOPNOTSUPP, true},
		{"enotty", unix.ENOTTY, true},
		{"enosys", unix.ENOSYS, true},
		{"exdev stays per-pair", unix.EXDEV, false},
		{"eperm", unix.EPERM, false},
		{"wrapped in path error", &os.PathError{Op: "ioctl", Path: "x", Err: unix.ENOTTY}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cloneUnsupported(tt.err))
		})
	}
}
