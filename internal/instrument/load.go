package instrument

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML instrument document and validates it.
// Unknown fields are rejected so a typo cannot silently drop a band.
func Parse(data []byte) (Instrument, error) {
	var in Instrument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		return Instrument{}, fmt.Errorf("parse instrument: %w", err)
	}
	if err := Validate(in); err != nil {
		return Instrument{}, err
	}
	return in, nil
}

// LoadFile reads and validates a single YAML instrument definition.
func LoadFile(path string) (Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Instrument{}, fmt.Errorf("read instrument file: %w", err)
	}
	in, err := Parse(data)
	if err != nil {
		return Instrument{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return in, nil
}

// LoadDir loads every *.yaml / *.yml file in dir, in file name order.
// A missing directory yields no instruments and no error.
func LoadDir(dir string) ([]Instrument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read instruments dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Instrument, 0, len(names))
	for _, name := range names {
		in, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// RegisterDir loads dir and registers each instrument into r.
// Returns the IDs that were added.
func (r *Registry) RegisterDir(dir string) ([]string, error) {
	loaded, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(loaded))
	for _, in := range loaded {
		if err := r.Register(in); err != nil {
			return ids, fmt.Errorf("register %q: %w", in.ID, err)
		}
		ids = append(ids, in.ID)
	}
	return ids, nil
}
