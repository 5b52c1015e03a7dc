package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/barnettlynn/nfctools/pkg/srx"
)

func TestLoadYAMLAndResolveRelativePaths(t *testing.T) {
	tmp := t.TempDir()
	tagPath := filepath.Join(tmp, "tag.bin")
	if err := os.WriteFile(tagPath, make([]byte, srx.DumpSize), 0o644); err != nil {
		t.Fatalf("write tag file: %v", err)
	}

	cfgPath := filepath.Join(tmp, "srxdump.yaml")
	cfgYAML := `
reader:
  index: 1
  timeout: 3s
tag:
  type: "512"
emulate:
  file: "tag.bin"
log:
  format: json
`
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Emulate.File != tagPath {
		t.Fatalf("expected resolved emulate path %q, got %q", tagPath, cfg.Emulate.File)
	}
	if cfg.Reader.Index != 1 || cfg.Log.Format != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	g, err := cfg.TagGeometry()
	if err != nil || g != srx.SRI512 {
		t.Fatalf("expected SRI512, got %v (%v)", g, err)
	}
	timeout, err := cfg.ReaderTimeout()
	if err != nil || timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v (%v)", timeout, err)
	}
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	cfgPath := writeConfig(t, "srxdump.yaml", `
reader:
  index: 2
`)
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Reader.Index != 2 || cfg.Reader.Timeout != "10s" || cfg.Tag.Type != "x4k" || cfg.Log.Format != "text" {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	cfgPath := writeConfig(t, "srxdump.toml", `
[reader]
index = 3
timeout = "500ms"

[tag]
type = "x4k"
`)
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Reader.Index != 3 || cfg.Reader.Timeout != "500ms" {
		t.Fatalf("unexpected reader config %+v", cfg.Reader)
	}
	if cfg.Log.Format != "text" {
		t.Fatalf("expected default log format, got %q", cfg.Log.Format)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		substr  string
	}{
		{"unknown yaml key", "c.yaml", "reader:\n  port: 1\n", "field port not found"},
		{"unknown toml key", "c.toml", "[reader]\nport = 1\n", `unknown key "reader.port"`},
		{"bad tag type", "c.yaml", "tag:\n  type: 2k\n", "config.tag.type"},
		{"negative index", "c.yaml", "reader:\n  index: -1\n", "config.reader.index must be >= 0"},
		{"bad timeout", "c.yaml", "reader:\n  timeout: soon\n", "config.reader.timeout"},
		{"bad log format", "c.toml", "[log]\nformat = \"xml\"\n", "config.log.format must be text or json"},
		{"missing emulate file", "c.yaml", "emulate:\n  file: missing.bin\n", "config.emulate.file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := writeConfig(t, tt.file, tt.content)
			_, err := Load(cfgPath)
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, name)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}
