// Package batch runs suites of programs with expected results and reports
// which ones reduce as expected.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/lamb/internal/diagnostics"
)

// Suite is a named list of cases, usually loaded from a YAML file.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Case is one program and its expected outcome. Exactly one of Want and
// Error is set.
type Case struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	// Want is the expected normal form in source syntax, compared up to
	// renaming of bound variables.
	Want string `yaml:"want,omitempty"`
	// Error is the expected diagnostic code.
	Error string `yaml:"error,omitempty"`
	// Steps, when set, is the expected number of reduction steps.
	Steps *uint64 `yaml:"steps,omitempty"`
}

// Load reads a suite from path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a suite; path is used in error messages.
func Parse(data []byte, path string) (*Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

func (s *Suite) validate() error {
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: missing name", i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("case %q: duplicate name", c.Name)
		}
		seen[c.Name] = true
		if c.Source == "" {
			return fmt.Errorf("case %q: missing source", c.Name)
		}
		if (c.Want == "") == (c.Error == "") {
			return fmt.Errorf("case %q: exactly one of want and error must be set", c.Name)
		}
		if c.Error != "" && !diagnostics.ErrorCode(c.Error).Known() {
			return fmt.Errorf("case %q: unknown error code %q", c.Name, c.Error)
		}
	}
	return nil
}
