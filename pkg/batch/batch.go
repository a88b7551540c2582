// Package batch canonicalizes JSON Lines datasets.
//
// Each input line is an object. Objects carrying "slot" are annotations:
//
//	{"domain": "hotel", "slot": "price range", "value": "moderately"}
//
// and come out with canonical "slot" and "value". Other objects must carry
// "text", which is normalized. Fields the processor does not know about are
// copied through unchanged.
package batch

import (
	"context"
	"io"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/mapping"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/stream/lineprocessor"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/slot"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"github.com/baditaflorin/l"
)

// Summary reports what a run did.
type Summary = ports.BatchSummary

// LineError is a record that could not be processed.
type LineError = ports.LineError

// Option defines a functional option for configuring a Processor.
type Option func(*batchConfig)

type batchConfig struct {
	Workers       int
	BatchSize     int
	MaxLineSize   int
	Policy        domain.NotMentionedPolicy
	SlotNames     map[string]string
	Substitutions []domain.Substitution
	Logger        ports.Logger
}

// WithWorkers bounds the number of records processed concurrently.
func WithWorkers(n int) Option {
	return func(cfg *batchConfig) { cfg.Workers = n }
}

// WithBatchSize sets how many lines are read before fanning out.
func WithBatchSize(n int) Option {
	return func(cfg *batchConfig) { cfg.BatchSize = n }
}

// WithMaxLineSize bounds the size of one record in bytes.
func WithMaxLineSize(n int) Option {
	return func(cfg *batchConfig) { cfg.MaxLineSize = n }
}

// WithNotMentionedPolicy selects the handling of "not mentioned" values.
func WithNotMentionedPolicy(p domain.NotMentionedPolicy) Option {
	return func(cfg *batchConfig) { cfg.Policy = p }
}

// WithSlotNameMapping renames slots after canonicalization.
func WithSlotNameMapping(names map[string]string) Option {
	return func(cfg *batchConfig) { cfg.SlotNames = names }
}

// WithSubstitutions applies substitutions to every record.
func WithSubstitutions(subs []domain.Substitution) Option {
	return func(cfg *batchConfig) { cfg.Substitutions = subs }
}

// WithLogger sets a custom logger. The default discards output.
func WithLogger(lg l.Logger) Option {
	return func(cfg *batchConfig) { cfg.Logger = logger.FromExisting(lg) }
}

// Processor canonicalizes JSON Lines streams.
type Processor struct {
	processor ports.BatchProcessor
}

// New creates a Processor.
func New(opts ...Option) (*Processor, error) {
	cfg := &batchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	tn := normalizer.NewTimeNormalizer()
	text := normalizer.NewTextNormalizer(tn)
	canonCfg := slot.Config{Policy: cfg.Policy}
	if len(cfg.SlotNames) > 0 {
		canonCfg.Mapper = mapping.NewStaticMapper(cfg.SlotNames)
	}
	canon, err := slot.NewCanonicalizer(canonCfg, cfg.Logger, text, tn)
	if err != nil {
		return nil, err
	}

	return &Processor{
		processor: lineprocessor.NewProcessor(cfg.Logger, text, canon, lineprocessor.ProcessingConfig{
			Workers:       cfg.Workers,
			BatchSize:     cfg.BatchSize,
			MaxLineSize:   cfg.MaxLineSize,
			Substitutions: cfg.Substitutions,
		}),
	}, nil
}

// Process reads records from r and writes canonical records to w in input order.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	return p.processor.Process(ctx, r, w)
}
