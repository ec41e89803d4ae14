package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesTraceDefaults(t *testing.T) {
	cfg := Default()
	p := cfg.Params()

	if p.PeakWindowW != 31 || p.PeakWindowH != 15 {
		t.Errorf("peak window = %dx%d, want 31x15", p.PeakWindowW, p.PeakWindowH)
	}
	if p.CollinearityToleranceDeg != 15 {
		t.Errorf("collinearity tolerance = %v, want 15", p.CollinearityToleranceDeg)
	}
	if cfg.DPI.X != 300 || cfg.DPI.Y != 300 {
		t.Errorf("dpi = %dx%d, want 300x300", cfg.DPI.X, cfg.DPI.Y)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trace.MaxExtension != 30 {
		t.Errorf("maxExtension = %v, want default 30", cfg.Trace.MaxExtension)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("dpi:\n  x: 600\n  y: 600\ntrace:\n  maxExtension: 45\noutput:\n  debugDir: dbg\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DPI.X != 600 {
		t.Errorf("dpi.x = %d, want 600", cfg.DPI.X)
	}
	if cfg.Trace.MaxExtension != 45 {
		t.Errorf("maxExtension = %v, want 45", cfg.Trace.MaxExtension)
	}
	if cfg.Trace.PeakWindowW != 31 {
		t.Errorf("peakWindowW = %d, want untouched default 31", cfg.Trace.PeakWindowW)
	}
	if cfg.Output.DebugDir != "dbg" {
		t.Errorf("debugDir = %q, want dbg", cfg.Output.DebugDir)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("trace: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}
