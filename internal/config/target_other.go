//go:build !unix

package config

import "runtime"

// DefaultTarget returns the host target triple.
func DefaultTarget() string {
	return triple(runtime.GOARCH, runtime.GOOS)
}
