// Package config provides configuration handling for cimport.
package config

// DefaultRuntimeHeader is the bundled support header, relative to the
// working directory.
const DefaultRuntimeHeader = "include/cimport_runtime.h"

// DefaultBuiltinTypes returns the typedef names that map straight to host
// primitives without resolving the typedef.
func DefaultBuiltinTypes() map[string]string {
	return map[string]string{
		// Fixed-width integers
		"int8_t":   "int8",
		"int16_t":  "int16",
		"int32_t":  "int32",
		"int64_t":  "int64",
		"uint8_t":  "uint8",
		"uint16_t": "uint16",
		"uint32_t": "uint32",
		"uint64_t": "uint64",

		// Sizes and offsets
		"size_t":    "uint64",
		"ssize_t":   "int64",
		"intptr_t":  "int64",
		"uintptr_t": "uint64",
		"ptrdiff_t": "int64",
		"off_t":     "int64",

		// Catch-all
		"cimport_any_t": "any",
	}
}

// DefaultHeaders returns the standard headers imported after the runtime
// header, in order.
func DefaultHeaders() []string {
	return []string{
		"stdio.h",
		"stdlib.h",
		"string.h",
		"math.h",
		"errno.h",
		"ctype.h",
		"time.h",
		"unistd.h",
		"fcntl.h",
		"signal.h",
	}
}

// DefaultOptions returns default import options.
func DefaultOptions() Options {
	return Options{
		Dialect:   "gnu11",
		LogFormat: "text",
	}
}
