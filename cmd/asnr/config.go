package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	asnr "github.com/6d7a/asnr-sub000"
)

// fileConfig is the --config YAML schema:
//
//	strictness: normal       # strict | normal | permissive | silent, or 0-6
//	fail-on: severe          # severity name or number
//	ignore:
//	  - "missing-class-*"
//	extensions: [".asn", ".asn1"]
type fileConfig struct {
	Strictness string   `yaml:"strictness"`
	FailOn     string   `yaml:"fail-on"`
	Ignore     []string `yaml:"ignore"`
	Extensions []string `yaml:"extensions"`
}

// loadFileConfig reads and decodes the configuration file. An empty
// path or an empty file yields the zero config.
func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// diagnosticConfig derives the diagnostic configuration from the file,
// starting from the defaults.
func (c *fileConfig) diagnosticConfig() (asnr.DiagnosticConfig, error) {
	cfg := asnr.DefaultConfig()
	if c.Strictness != "" {
		level, err := parseStrictness(c.Strictness)
		if err != nil {
			return cfg, err
		}
		cfg.Level = level
	}
	if c.FailOn != "" {
		sev, err := parseSeverity(c.FailOn)
		if err != nil {
			return cfg, err
		}
		cfg.FailAt = sev
	}
	cfg.Ignore = append(cfg.Ignore, c.Ignore...)
	return cfg, nil
}

func (c *fileConfig) sourceOptions() []asnr.SourceOption {
	if len(c.Extensions) == 0 {
		return nil
	}
	return []asnr.SourceOption{asnr.WithExtensions(c.Extensions...)}
}

// parseStrictness accepts a level name or its numeric value 0-6.
func parseStrictness(s string) (asnr.StrictnessLevel, error) {
	switch strings.ToLower(s) {
	case "strict":
		return asnr.StrictnessStrict, nil
	case "normal":
		return asnr.StrictnessNormal, nil
	case "permissive":
		return asnr.StrictnessPermissive, nil
	case "silent":
		return asnr.StrictnessSilent, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return asnr.StrictnessLevel(n), nil
	}
	return 0, fmt.Errorf("unknown strictness level: %q", s)
}

// parseSeverity accepts a severity name or its numeric value 0-6.
func parseSeverity(s string) (asnr.Severity, error) {
	for sev := asnr.SeverityFatal; sev <= asnr.SeverityInfo; sev++ {
		if strings.EqualFold(s, sev.String()) {
			return sev, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return asnr.Severity(n), nil
	}
	return 0, fmt.Errorf("unknown severity: %q", s)
}
