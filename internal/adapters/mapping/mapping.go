// Package mapping provides slot-name mappings and substitution lists loaded
// from YAML.
package mapping

import (
	"fmt"
	"os"
	"strings"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"gopkg.in/yaml.v3"
)

// StaticMapper is a read-only slot-name mapping. Keys are matched after
// trimming and lowercasing.
type StaticMapper struct {
	names map[string]string
}

// NewStaticMapper copies names into a new mapper.
func NewStaticMapper(names map[string]string) *StaticMapper {
	m := &StaticMapper{names: make(map[string]string, len(names))}
	for k, v := range names {
		m.names[normalizeKey(k)] = strings.TrimSpace(v)
	}
	return m
}

// Lookup implements ports.SlotNameMapper.
func (m *StaticMapper) Lookup(slot string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.names[normalizeKey(slot)]
	return v, ok
}

// Len returns the number of mapped slots.
func (m *StaticMapper) Len() int { return len(m.names) }

var _ ports.SlotNameMapper = (*StaticMapper)(nil)

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// File is the on-disk layout. A document holding only a flat from: to map
// is accepted as SlotNames.
type File struct {
	SlotNames     map[string]string     `yaml:"slot_names"`
	Substitutions []domain.Substitution `yaml:"substitutions"`
}

// Parse decodes a mapping document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	if f.SlotNames != nil || f.Substitutions != nil {
		return &f, nil
	}

	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	f.SlotNames = flat
	return &f, nil
}

// Load reads and decodes a mapping file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return Parse(data)
}

// Mapper returns a StaticMapper over the file's slot names.
func (f *File) Mapper() *StaticMapper {
	return NewStaticMapper(f.SlotNames)
}
