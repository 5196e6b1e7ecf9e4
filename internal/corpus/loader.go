package corpus

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/corpus.yaml
var defaultCorpus []byte

// Default returns the built-in corpus.
func Default() (*Snapshot, error) {
	return Parse(defaultCorpus, ".yaml")
}

// LoadFile reads a corpus from a .yaml, .yml, .json or .xlsx file.
func LoadFile(path string) (*Snapshot, error) {
	if !SupportedExtension(path) {
		return nil, fmt.Errorf("load corpus %s: unsupported corpus format %q", path, filepath.Ext(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	snap, err := Parse(content, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return snap, nil
}

// Parse decodes corpus content of the format named by ext.
func Parse(content []byte, ext string) (*Snapshot, error) {
	var data *Data
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		data, err = parseYAML(content)
	case ".json":
		data, err = parseJSON(content)
	case ".xlsx":
		data, err = parseWorkbook(content)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return NewSnapshot(data)
}

// SupportedExtension reports whether path has a loadable corpus extension.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".xlsx":
		return true
	}
	return false
}

func parseYAML(content []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &data, nil
}

func parseJSON(content []byte) (*Data, error) {
	var data Data
	dec := json.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &data, nil
}
