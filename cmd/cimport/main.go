// cimport imports the declarations of C headers into a host declaration
// context and renders them through a template.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cimport/internal/ast"
	"cimport/internal/config"
	"cimport/internal/frontend"
	"cimport/internal/generator"
	"cimport/internal/importer"
	"cimport/internal/logger"
	"cimport/internal/parser"
)

var (
	configFile   string
	templateFile string
	outputFile   string
	target       string
	headers      string
	runtimeFile  string
	exclude      string
	verbose      bool
	logFormat    string
	strict       bool
	showHelp     bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "Config file (YAML/JSON)")
	flag.StringVar(&configFile, "c", "", "Config file (shorthand)")

	flag.StringVar(&templateFile, "template", "", "Template file (default: built-in interface template)")
	flag.StringVar(&templateFile, "t", "", "Template file (shorthand)")

	flag.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	flag.StringVar(&outputFile, "o", "", "Output file (shorthand)")

	flag.StringVar(&target, "target", "", "Target triple (default: host)")
	flag.StringVar(&headers, "header", "", "Headers to import instead of the standard list (comma-separated)")
	flag.StringVar(&headers, "H", "", "Headers to import (shorthand)")
	flag.StringVar(&runtimeFile, "runtime", "", "Runtime support header")
	flag.StringVar(&exclude, "exclude", "", "Exclude these declarations (comma-separated)")
	flag.StringVar(&exclude, "X", "", "Exclude these declarations (shorthand)")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	flag.BoolVar(&strict, "strict", false, "Fail when any header could not be imported")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")

	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `cimport - C header importer

Usage:
    cimport [options]

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
    # Import the standard headers for the host and print the interface
    cimport

    # Import a project header with a custom runtime header
    cimport -H include/demo.h -runtime include/cimport_runtime.h -o demo.iface

    # Cross-import for another target, skipping some declarations
    cimport -target aarch64-unknown-linux-gnu -X gets,tmpnam

    # Render with a custom template and configuration
    cimport -c cimport.yaml -t interface.tmpl -o stdlib.iface

Environment:
    CIMPORT_TARGET, CIMPORT_INCLUDE_ROOT, CIMPORT_DEBUG, SDKROOT

`)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if showHelp {
		flag.Usage()
		return nil
	}

	// Load configuration
	cfg := config.New()
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	cfg.ApplyEnv()

	// Apply CLI overrides
	if target != "" {
		cfg.Target = target
	}
	if headers != "" {
		cfg.Headers = parseCommaSeparated(headers)
	}
	if runtimeFile != "" {
		cfg.RuntimeHeader = runtimeFile
	}
	if exclude != "" {
		cfg.Options.ExcludeDecls = append(cfg.Options.ExcludeDecls, parseCommaSeparated(exclude)...)
	}
	if verbose {
		cfg.Options.Verbose = true
	}
	if logFormat != "" {
		cfg.Options.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Format = cfg.Options.LogFormat
	if cfg.Options.Verbose {
		logCfg.Level = logger.LevelDebug
	}
	logger.Init(logCfg)

	// Import
	ctx := ast.NewContext()
	im := importer.New(cfg, parser.New(cfg, frontend.New()), ctx)
	if err := im.Run(); err != nil {
		return err
	}

	errs := ctx.Errors()
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	reportStats(os.Stderr, cfg, im.Stats())
	if strict && len(errs) > 0 {
		return fmt.Errorf("%d headers failed to import", len(errs))
	}

	// Create generator and load template
	gen := generator.New(cfg)
	if templateFile != "" {
		if err := gen.LoadTemplate(templateFile); err != nil {
			return err
		}
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		var err error
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := gen.Generate(ctx, im.Files(), output); err != nil {
		return err
	}

	if cfg.Options.Verbose && outputFile != "" {
		fmt.Fprintf(os.Stderr, "Generated output to %s\n", outputFile)
	}

	return nil
}

// reportStats prints the import summary when verbose output is enabled by
// flag, config file or environment.
func reportStats(w io.Writer, cfg *config.Config, s importer.Stats) {
	if !cfg.Options.Verbose {
		return
	}
	fmt.Fprintf(w, "Imported %d types, %d functions and %d globals from %d headers (%d failed, %d skipped declarations)\n",
		s.Types, s.Functions, s.Globals, s.Headers, s.Failed, s.Skipped)
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
