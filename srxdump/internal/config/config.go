package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/barnettlynn/nfctools/pkg/srx"
)

type Config struct {
	Reader  ReaderConfig  `yaml:"reader" toml:"reader"`
	Tag     TagConfig     `yaml:"tag" toml:"tag"`
	Emulate EmulateConfig `yaml:"emulate" toml:"emulate"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type ReaderConfig struct {
	Index   int    `yaml:"index" toml:"index"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

type TagConfig struct {
	Type string `yaml:"type" toml:"type"`
}

type EmulateConfig struct {
	File string `yaml:"file,omitempty" toml:"file"`
}

type LogConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Reader: ReaderConfig{Index: 0, Timeout: "10s"},
		Tag:    TagConfig{Type: "x4k"},
		Log:    LogConfig{Format: "text"},
	}
}

// Load reads a YAML config, or a TOML config when path ends in .toml, on top
// of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := decodeTOML(content, cfg); err != nil {
			return nil, err
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	cfg.resolvePaths(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTOML(content []byte, cfg *Config) error {
	var raw Config
	meta, err := toml.Decode(string(content), &raw)
	if err != nil {
		return fmt.Errorf("parse config toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse config toml: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("reader", "index") {
		cfg.Reader.Index = raw.Reader.Index
	}
	if meta.IsDefined("reader", "timeout") {
		cfg.Reader.Timeout = strings.TrimSpace(raw.Reader.Timeout)
	}
	if meta.IsDefined("tag", "type") {
		cfg.Tag.Type = strings.TrimSpace(raw.Tag.Type)
	}
	if meta.IsDefined("emulate", "file") {
		cfg.Emulate.File = strings.TrimSpace(raw.Emulate.File)
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.TrimSpace(raw.Log.Format)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Reader.Index < 0 {
		return fmt.Errorf("config.reader.index must be >= 0")
	}
	if _, err := c.TagGeometry(); err != nil {
		return fmt.Errorf("config.tag.type: %w", err)
	}
	if _, err := c.ReaderTimeout(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config.log.format must be text or json, got %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Emulate.File) != "" {
		if err := validateReadableFile(c.Emulate.File, "config.emulate.file"); err != nil {
			return err
		}
	}
	return nil
}

// TagGeometry returns the configured tag layout.
func (c *Config) TagGeometry() (srx.Geometry, error) {
	return srx.ParseGeometry(c.Tag.Type)
}

// ReaderTimeout returns how long to wait for a tag to enter the field.
func (c *Config) ReaderTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.Reader.Timeout))
	if err != nil {
		return 0, fmt.Errorf("config.reader.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config.reader.timeout must be >= 0")
	}
	return d, nil
}

func (c *Config) resolvePaths(configPath string) {
	configDir := filepath.Dir(configPath)
	c.Emulate.File = resolvePath(configDir, c.Emulate.File)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path string, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}
