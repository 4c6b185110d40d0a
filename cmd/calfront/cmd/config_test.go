package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	defer os.Chdir(oldWd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}

	got, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := defaultConfig()
	if got.Color != want.Color || got.MaxDiagnostics != want.MaxDiagnostics || len(got.SanitizerAllowlist) != 0 {
		t.Errorf("loadConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	defer os.Chdir(oldWd)

	content := "color: false\nmaxDiagnostics: 5\nsanitizerAllowlist:\n  - IF\n  - THEN\n"
	if err := os.WriteFile(filepath.Join(dir, ".calfront.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}

	got, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if got.Color != false {
		t.Errorf("Color = %v, want false", got.Color)
	}
	if got.MaxDiagnostics != 5 {
		t.Errorf("MaxDiagnostics = %d, want 5", got.MaxDiagnostics)
	}
	if len(got.SanitizerAllowlist) != 2 || got.SanitizerAllowlist[0] != "IF" {
		t.Errorf("SanitizerAllowlist = %v, want [IF THEN]", got.SanitizerAllowlist)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	defer os.Chdir(oldWd)

	if err := os.WriteFile(filepath.Join(dir, ".calfront.yaml"), []byte("color: [this is not valid"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig() expected error for malformed YAML, got nil")
	}
}
