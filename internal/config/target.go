package config

import "strings"

var archNames = map[string]string{
	"amd64": "x86_64",
	"386":   "i386",
	"arm64": "aarch64",
	"arm":   "arm",
	"i686":  "i386",
}

var osSuffixes = map[string]string{
	"linux":   "unknown-linux-gnu",
	"darwin":  "apple-darwin",
	"freebsd": "unknown-freebsd",
	"netbsd":  "unknown-netbsd",
	"openbsd": "unknown-openbsd",
	"windows": "pc-windows-msvc",
}

// triple builds a target triple from a machine or GOARCH name and a GOOS.
func triple(arch, goos string) string {
	if a, ok := archNames[arch]; ok {
		arch = a
	}
	if goos == "darwin" && arch == "aarch64" {
		arch = "arm64"
	}
	suffix, ok := osSuffixes[goos]
	if !ok {
		suffix = "unknown-" + goos
	}
	return arch + "-" + suffix
}

// SplitTarget returns the GOOS and GOARCH equivalents of a target triple.
func SplitTarget(target string) (goos, goarch string) {
	parts := strings.Split(target, "-")
	switch parts[0] {
	case "x86_64", "amd64":
		goarch = "amd64"
	case "i386", "i486", "i586", "i686":
		goarch = "386"
	case "aarch64", "arm64":
		goarch = "arm64"
	case "riscv64":
		goarch = "riscv64"
	case "s390x":
		goarch = "s390x"
	case "ppc64le", "powerpc64le":
		goarch = "ppc64le"
	default:
		goarch = parts[0]
	}
	for _, p := range parts[1:] {
		switch {
		case p == "linux":
			goos = "linux"
		case strings.HasPrefix(p, "darwin"), strings.HasPrefix(p, "macos"):
			goos = "darwin"
		case strings.HasPrefix(p, "freebsd"):
			goos = "freebsd"
		case strings.HasPrefix(p, "netbsd"):
			goos = "netbsd"
		case strings.HasPrefix(p, "openbsd"):
			goos = "openbsd"
		case p == "windows":
			goos = "windows"
		}
	}
	return goos, goarch
}
