package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cimport/internal/ast"
)

// Config represents the complete configuration of one import pass.
type Config struct {
	Target        string            `yaml:"target" json:"target"`
	RuntimeHeader string            `yaml:"runtimeHeader" json:"runtimeHeader"`
	IncludeRoot   string            `yaml:"includeRoot" json:"includeRoot"`
	SDKRoot       string            `yaml:"sdkRoot" json:"sdkRoot"`
	Headers       []string          `yaml:"headers" json:"headers"`
	ExtraArgs     []string          `yaml:"extraArgs" json:"extraArgs"`
	BuiltinTypes  map[string]string `yaml:"builtinTypes" json:"builtinTypes"`
	Options       Options           `yaml:"options" json:"options"`
}

// Options represents import options.
type Options struct {
	Dialect      string   `yaml:"dialect" json:"dialect"`
	IncludeDecls []string `yaml:"includeDecls" json:"includeDecls"`
	ExcludeDecls []string `yaml:"excludeDecls" json:"excludeDecls"`
	Verbose      bool     `yaml:"verbose" json:"verbose"`
	LogFormat    string   `yaml:"logFormat" json:"logFormat"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Target:        DefaultTarget(),
		RuntimeHeader: DefaultRuntimeHeader,
		Headers:       DefaultHeaders(),
		BuiltinTypes:  DefaultBuiltinTypes(),
		Options:       DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var loaded Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	// Relative header paths are relative to the config file
	if loaded.RuntimeHeader != "" && !filepath.IsAbs(loaded.RuntimeHeader) {
		loaded.RuntimeHeader = filepath.Join(filepath.Dir(path), loaded.RuntimeHeader)
	}

	c.merge(&loaded)

	return nil
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *Config) {
	if loaded.Target != "" {
		c.Target = loaded.Target
	}
	if loaded.RuntimeHeader != "" {
		c.RuntimeHeader = loaded.RuntimeHeader
	}
	if loaded.IncludeRoot != "" {
		c.IncludeRoot = loaded.IncludeRoot
	}
	if loaded.SDKRoot != "" {
		c.SDKRoot = loaded.SDKRoot
	}
	// A loaded header list replaces the defaults; an empty one keeps them
	if len(loaded.Headers) > 0 {
		c.Headers = loaded.Headers
	}
	c.ExtraArgs = append(c.ExtraArgs, loaded.ExtraArgs...)

	// Builtin types (loaded values override defaults)
	for k, v := range loaded.BuiltinTypes {
		c.BuiltinTypes[k] = v
	}

	if loaded.Options.Dialect != "" {
		c.Options.Dialect = loaded.Options.Dialect
	}
	if loaded.Options.LogFormat != "" {
		c.Options.LogFormat = loaded.Options.LogFormat
	}
	if loaded.Options.Verbose {
		c.Options.Verbose = true
	}
	c.Options.IncludeDecls = loaded.Options.IncludeDecls
	c.Options.ExcludeDecls = loaded.Options.ExcludeDecls
}

// Validate checks that the configuration can drive an import pass.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target triple is required")
	}
	if c.RuntimeHeader == "" {
		return fmt.Errorf("runtime header is required")
	}
	for name, prim := range c.BuiltinTypes {
		if _, ok := ast.PrimitiveByName(prim); !ok {
			return fmt.Errorf("builtin type %s: unknown host type %q", name, prim)
		}
	}
	return nil
}

// BuiltinType returns the host primitive replacing the typedef name, if any.
// Qualifiers are ignored.
func (c *Config) BuiltinType(name string) (ast.Primitive, bool) {
	prim, ok := c.BuiltinTypes[StripQualifiers(name)]
	if !ok {
		return 0, false
	}
	return ast.PrimitiveByName(prim)
}

// StripQualifiers removes C type qualifiers from a type spelling.
func StripQualifiers(spelling string) string {
	fields := strings.Fields(spelling)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "const", "volatile", "restrict", "__restrict", "_Atomic":
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// ShouldImport checks if a top-level declaration should be imported based on
// config.
func (c *Config) ShouldImport(name string) bool {
	return c.Included(name) && !c.Excluded(name)
}

// Included reports whether name passes the include list. An empty list
// includes everything.
func (c *Config) Included(name string) bool {
	return len(c.Options.IncludeDecls) == 0 || contains(c.Options.IncludeDecls, name)
}

// Excluded reports whether name is on the exclude list. Exclusions also apply
// to declarations imported as dependencies of others.
func (c *Config) Excluded(name string) bool {
	return contains(c.Options.ExcludeDecls, name)
}

// IncludeDir returns the directory standard headers are read from.
func (c *Config) IncludeDir() string {
	if c.IncludeRoot != "" {
		return c.IncludeRoot
	}
	if c.SDKRoot != "" {
		return filepath.Join(c.SDKRoot, "usr", "include")
	}
	return "/usr/include"
}

// HeaderPaths returns the standard headers joined to the include directory.
// Absolute entries are used as is.
func (c *Config) HeaderPaths() []string {
	dir := c.IncludeDir()
	paths := make([]string, 0, len(c.Headers))
	for _, h := range c.Headers {
		if filepath.IsAbs(h) {
			paths = append(paths, h)
			continue
		}
		paths = append(paths, filepath.Join(dir, h))
	}
	return paths
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
