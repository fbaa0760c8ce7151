package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ReadsAllFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "avrogen.yaml")
	content := `
namespace: com.example.generated
typeName: Card
unified: true
output: out/card.avsc
logLevel: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Namespace != "com.example.generated" || cfg.TypeName != "Card" ||
		!cfg.Unified || cfg.Output != "out/card.avsc" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_PartialFileLeavesZeroValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "avrogen.yaml")
	if err := os.WriteFile(path, []byte("namespace: com.example\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Namespace != "com.example" || cfg.Unified || cfg.TypeName != "" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "avrogen.yaml")
	if err := os.WriteFile(path, []byte("namespace: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
