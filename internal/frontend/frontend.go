// Package frontend implements model.Frontend on top of the modernc.org/cc/v4
// C front end.
//
// cc/v4 asks the host C compiler once per target for its predefined macros
// and system include paths. Those configurations are cached, so a Frontend
// should be reused across headers.
package frontend

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"modernc.org/cc/v4"

	"cimport/internal/config"
	"cimport/internal/logger"
	"cimport/internal/model"
)

// Frontend parses C headers with modernc.org/cc/v4.
type Frontend struct {
	mu      sync.Mutex
	configs map[string]*cc.Config
}

// New creates a new Frontend.
func New() *Frontend {
	return &Frontend{configs: make(map[string]*cc.Config)}
}

// options is the subset of compiler arguments the front end understands.
type options struct {
	goos, goarch string
	std          string
	include      []string
	sysInclude   []string
	defines      []string
}

func (o options) key() string {
	return o.goos + "/" + o.goarch + "/" + o.std
}

// parseArgs interprets the clang-style arguments built by the parser.
// Arguments it does not understand are ignored.
func parseArgs(args []string) options {
	var o options
	next := func(i *int) string {
		if *i+1 < len(args) {
			*i++
			return args[*i]
		}
		return ""
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-target":
			o.goos, o.goarch = config.SplitTarget(next(&i))
		case strings.HasPrefix(arg, "--target="):
			o.goos, o.goarch = config.SplitTarget(strings.TrimPrefix(arg, "--target="))
		case strings.HasPrefix(arg, "-std="):
			o.std = arg
		case arg == "-I":
			if dir := next(&i); dir != "" {
				o.include = append(o.include, dir)
			}
		case strings.HasPrefix(arg, "-I"):
			o.include = append(o.include, arg[2:])
		case arg == "-isystem":
			if dir := next(&i); dir != "" {
				o.sysInclude = append(o.sysInclude, dir)
			}
		case arg == "-isysroot":
			if root := next(&i); root != "" {
				o.sysInclude = append(o.sysInclude, filepath.Join(root, "usr", "include"))
			}
		case arg == "-D":
			o.defines = append(o.defines, define(next(&i)))
		case strings.HasPrefix(arg, "-D"):
			o.defines = append(o.defines, define(arg[2:]))
		case arg == "-U":
			o.defines = append(o.defines, "#undef "+next(&i))
		case strings.HasPrefix(arg, "-U"):
			o.defines = append(o.defines, "#undef "+arg[2:])
		case arg == "-x":
			next(&i)
		}
	}
	return o
}

// define turns a -D argument into a #define line.
func define(arg string) string {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		value = "1"
	}
	return "#define " + name + " " + value
}

// config returns a private copy of the cached configuration for o.
func (f *Frontend) config(o options) (*cc.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	base, ok := f.configs[o.key()]
	if !ok {
		var opts []string
		if o.std != "" {
			opts = append(opts, o.std)
		}
		var err error
		base, err = cc.NewConfig(o.goos, o.goarch, opts...)
		if err != nil {
			return nil, fmt.Errorf("configuring C front end for %s/%s: %w", o.goos, o.goarch, err)
		}
		logger.Debug("C front end configured", "goos", o.goos, "goarch", o.goarch, "std", o.std)
		f.configs[o.key()] = base
	}

	cfg := *base
	cfg.Header = true
	cfg.IncludePaths = append(append([]string(nil), o.include...), base.IncludePaths...)
	cfg.SysIncludePaths = append(append([]string(nil), o.sysInclude...), base.SysIncludePaths...)
	if len(o.defines) != 0 {
		cfg.Predefined = base.Predefined + "\n" + strings.Join(o.defines, "\n") + "\n"
	}
	return &cfg, nil
}

// Parse translates the header at path.
func (f *Frontend) Parse(path string, args []string) (model.TranslationUnit, error) {
	cfg, err := f.config(parseArgs(args))
	if err != nil {
		return nil, err
	}

	ast, err := cc.Translate(cfg, []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: path},
	})
	if err != nil {
		return nil, err
	}
	return build(path, ast), nil
}
