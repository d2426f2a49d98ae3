package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetters(t *testing.T) {
	cfg := FromMap(map[string]string{
		"STR":      "value",
		"BOOL":     "false",
		"BAD_BOOL": "maybe",
		"INT":      "12",
		"ZERO_INT": "0",
	})

	if got := cfg.GetString("STR", "x"); got != "value" {
		t.Errorf("GetString = %q", got)
	}
	if got := cfg.GetString("MISSING", "x"); got != "x" {
		t.Errorf("GetString default = %q", got)
	}
	if cfg.GetBool("BOOL", true) {
		t.Error("GetBool should read false")
	}
	if !cfg.GetBool("BAD_BOOL", true) {
		t.Error("GetBool should fall back on invalid values")
	}
	if got := cfg.GetInt("INT", 1); got != 12 {
		t.Errorf("GetInt = %d", got)
	}
	if got := cfg.GetInt("ZERO_INT", 5); got != 5 {
		t.Errorf("GetInt must ignore non-positive values, got %d", got)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvWallDeriveArea, "false")
	t.Setenv(EnvMaxUploadMB, "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging().Level != "debug" {
		t.Errorf("unexpected level %q", cfg.Logging().Level)
	}
	if cfg.WallOptions().DeriveMissingArea {
		t.Error("expected area derivation to be disabled")
	}
	if cfg.MaxUploadBytes() != 5<<20 {
		t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestDefaults(t *testing.T) {
	cfg := FromMap(nil)

	opts := cfg.WallOptions()
	if !opts.UseNetArea || !opts.DeriveMissingArea {
		t.Errorf("unexpected wall options %+v", opts)
	}
	if cfg.MaxUploadBytes() != 50<<20 {
		t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
	if lc := cfg.Logging(); lc.Format != "json" || lc.Fields["service"] != "takeoff" {
		t.Errorf("unexpected logging config %+v", lc)
	}

	overrides, err := cfg.TypeCodeOverrides()
	if err != nil || overrides != nil {
		t.Errorf("expected no overrides, got %v %v", overrides, err)
	}
}

func TestTypeResolver_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	if err := os.WriteFile(path, []byte("types:\n  103090709: Muro\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := FromMap(map[string]string{EnvTypeCodes: path}).TypeResolver()
	if err != nil {
		t.Fatalf("TypeResolver() error = %v", err)
	}
	if got := r.Resolve(103090709); got != "Muro" {
		t.Errorf("Resolve = %q, want Muro", got)
	}
	if got := r.Resolve(1484403080); got != "IfcSlab" {
		t.Errorf("defaults lost, got %q", got)
	}
}

func TestTypeResolver_MissingFile(t *testing.T) {
	cfg := FromMap(map[string]string{EnvTypeCodes: filepath.Join(t.TempDir(), "nope.yaml")})
	if _, err := cfg.TypeResolver(); err == nil {
		t.Error("expected an error for a missing file")
	}
}
