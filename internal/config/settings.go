package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the contents of lamb.yaml.
type Settings struct {
	// Color selects colored result output: auto, always or never.
	Color string `yaml:"color"`

	// Backend selects the evaluator: machine (explicit stack) or tree (recursive).
	Backend string `yaml:"backend"`

	// Trace logs every reduction step to stderr.
	Trace bool `yaml:"trace"`

	// DumpAST prints the parsed tree to stderr before evaluation.
	DumpAST bool `yaml:"dump_ast"`

	Server ServerSettings `yaml:"server"`
	Batch  BatchSettings  `yaml:"batch"`
}

// ServerSettings configures lambd.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// BatchSettings configures lambtest.
type BatchSettings struct {
	// Workers bounds concurrent cases. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Defaults returns the settings used when no file is found.
func Defaults() *Settings {
	return &Settings{
		Color:   ColorAuto,
		Backend: BackendMachine,
		Server:  ServerSettings{Addr: DefaultServerAddr},
	}
}

// LoadSettings reads and validates the settings file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings decodes YAML settings on top of the defaults. Unknown keys are
// rejected.
func ParseSettings(data []byte, path string) (*Settings, error) {
	s := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Discover loads settings from $LAMB_CONFIG, else ./lamb.yaml, else returns
// the defaults. A path named by LAMB_CONFIG must exist.
func Discover() (*Settings, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return LoadSettings(path)
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return LoadSettings(ConfigFileName)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", ConfigFileName, err)
	}
	return Defaults(), nil
}

func (s *Settings) setDefaults() {
	if s.Color == "" {
		s.Color = ColorAuto
	}
	if s.Backend == "" {
		s.Backend = BackendMachine
	}
	if s.Server.Addr == "" {
		s.Server.Addr = DefaultServerAddr
	}
}

func (s *Settings) validate(path string) error {
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color: unknown mode %q (want auto, always or never)", path, s.Color)
	}
	switch s.Backend {
	case BackendMachine, BackendTree:
	default:
		return fmt.Errorf("%s: backend: unknown backend %q (want machine or tree)", path, s.Backend)
	}
	if s.Batch.Workers < 0 {
		return fmt.Errorf("%s: batch.workers: must not be negative, got %d", path, s.Batch.Workers)
	}
	return nil
}
