package config

import (
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
)

// ApplyEnv overrides configuration from the environment.
func (c *Config) ApplyEnv() {
	c.Target = env.Str("CIMPORT_TARGET", c.Target)
	c.IncludeRoot = env.Str("CIMPORT_INCLUDE_ROOT", c.IncludeRoot)
	if env.Bool("CIMPORT_DEBUG") {
		c.Options.Verbose = true
	}
	if c.SDKRoot == "" {
		c.SDKRoot = SDKRoot()
	}
}

var (
	sdkOnce sync.Once
	sdkRoot string
)

// SDKRoot returns the platform SDK root, or "" where there is none. It is
// discovered once per process.
func SDKRoot() string {
	sdkOnce.Do(func() {
		sdkRoot = discoverSDK()
	})
	return sdkRoot
}

func discoverSDK() string {
	if env.Has("SDKROOT") {
		return env.Str("SDKROOT")
	}
	if runtime.GOOS != "darwin" {
		return ""
	}
	out, err := exec.Command("xcrun", "--show-sdk-path").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
