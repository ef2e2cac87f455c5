//go:build unix

package config

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// DefaultTarget returns the host target triple.
func DefaultTarget() string {
	var uts unix.Utsname
	arch := runtime.GOARCH
	if err := unix.Uname(&uts); err == nil {
		arch = unix.ByteSliceToString(uts.Machine[:])
	}
	return triple(arch, runtime.GOOS)
}
