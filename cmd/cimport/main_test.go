package main

import (
	"bytes"
	"strings"
	"testing"

	"cimport/internal/config"
	"cimport/internal/importer"
)

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"stdio.h", []string{"stdio.h"}},
		{" gets , tmpnam,,", []string{"gets", "tmpnam"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := parseCommaSeparated(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("parseCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseCommaSeparated(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestReportStats(t *testing.T) {
	stats := importer.Stats{Headers: 2, Failed: 1, Types: 3, Functions: 4, Globals: 5, Skipped: 6}

	cfg := config.New()
	var buf bytes.Buffer
	reportStats(&buf, cfg, stats)
	if buf.Len() != 0 {
		t.Errorf("summary printed without verbose: %q", buf.String())
	}

	// Set by options.verbose or CIMPORT_DEBUG as well as -v
	cfg.Options.Verbose = true
	reportStats(&buf, cfg, stats)
	want := "Imported 3 types, 4 functions and 5 globals from 2 headers (1 failed, 6 skipped declarations)"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}
}
