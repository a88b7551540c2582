// Package app wires configuration into loggers, normalizers and batch
// processors for the command-line entry points.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	slotnormalizer "github.com/baditaflorin/go_slot_normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/mapping"
	"github.com/baditaflorin/go_slot_normalizer/internal/config"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/pkg/batch"
	"github.com/baditaflorin/l"
)

// NewLogger creates and configures a logger writing to stdout unless
// cfg.File is set.
func NewLogger(cfg config.LogConfig) (l.Logger, error) {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo is NewLogger with a different fallback destination.
func NewLoggerTo(cfg config.LogConfig, fallback io.Writer) (l.Logger, error) {
	output := fallback
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.JSON,
		AsyncWrite:  cfg.Async,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// Mapping is the merged slot-name mapping and substitution list.
type Mapping struct {
	SlotNames     map[string]string
	Substitutions []domain.Substitution
}

// LoadMapping merges the mapping file named by cfg with the inline entries.
// A relative mapping path is resolved against baseDir.
func LoadMapping(cfg *config.Config, baseDir string) (*Mapping, error) {
	if cfg.MappingFile == "" {
		return MergeMapping(cfg, nil), nil
	}
	f, err := mapping.Load(MappingPath(cfg, baseDir))
	if err != nil {
		return nil, err
	}
	return MergeMapping(cfg, f), nil
}

// MappingPath resolves cfg.MappingFile against baseDir.
func MappingPath(cfg *config.Config, baseDir string) string {
	path := cfg.MappingFile
	if path != "" && !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// MergeMapping combines a mapping file, which may be nil, with the inline
// entries of cfg. Inline slot names win; inline substitutions run after the
// file's.
func MergeMapping(cfg *config.Config, f *mapping.File) *Mapping {
	m := &Mapping{SlotNames: make(map[string]string)}
	if f != nil {
		for k, v := range f.SlotNames {
			m.SlotNames[k] = v
		}
		m.Substitutions = append(m.Substitutions, f.Substitutions...)
	}
	for k, v := range cfg.SlotNames {
		m.SlotNames[k] = v
	}
	m.Substitutions = append(m.Substitutions, cfg.Substitutions...)
	return m
}

// NewNormalizer builds a Normalizer from configuration.
func NewNormalizer(cfg *config.Config, m *Mapping, logger l.Logger) (*slotnormalizer.Normalizer, error) {
	opts := []slotnormalizer.Option{
		slotnormalizer.WithLogger(logger),
		slotnormalizer.WithNotMentionedPolicy(cfg.Policy()),
		slotnormalizer.WithSubstitutions(m.Substitutions),
	}
	if len(m.SlotNames) > 0 {
		opts = append(opts, slotnormalizer.WithSlotNameMapping(m.SlotNames))
	}
	return slotnormalizer.New(opts...)
}

// NewBatchProcessor builds a JSON Lines processor from configuration.
func NewBatchProcessor(cfg *config.Config, m *Mapping, logger l.Logger) (*batch.Processor, error) {
	return batch.New(
		batch.WithLogger(logger),
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithBatchSize(cfg.Batch.BatchSize),
		batch.WithMaxLineSize(cfg.Batch.MaxLineSize),
		batch.WithNotMentionedPolicy(cfg.Policy()),
		batch.WithSlotNameMapping(m.SlotNames),
		batch.WithSubstitutions(m.Substitutions),
	)
}
