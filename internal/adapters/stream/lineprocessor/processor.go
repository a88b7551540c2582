package lineprocessor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// Constants for line processing
const (
	// DefaultBatchSize defines how many lines are fanned out to workers at once
	DefaultBatchSize = 256

	// DefaultMaxLineSize bounds a single record
	DefaultMaxLineSize = 1024 * 1024 // 1MB

	initialLineBuffer = 64 * 1024
)

var (
	errInvalidJSON = errors.New("invalid JSON")
	errNotObject   = errors.New("record is not a JSON object")
	errNoFields    = errors.New(`record has neither "text" nor "slot"`)
)

type recordKind int

const (
	kindSkipped recordKind = iota
	kindUtterance
	kindAnnotation
)

type outcome struct {
	data []byte
	kind recordKind
	err  error
}

// ProcessingConfig defines configuration for batch processing.
type ProcessingConfig struct {
	// Workers bounds concurrent records; 0 means runtime.NumCPU().
	Workers     int
	BatchSize   int
	MaxLineSize int
	// Substitutions run ahead of any carried by a record.
	Substitutions []domain.Substitution
}

// Processor canonicalizes JSON Lines records. A record holding "slot" is an
// annotation and gets "slot" and "value" rewritten; otherwise its "text" is
// normalized. "domain" and "substitutions" are optional, and every other
// field is copied through.
type Processor struct {
	logger        ports.Logger
	normalizer    ports.Normalizer
	canonicalizer ports.Canonicalizer
	config        ProcessingConfig
}

// NewProcessor creates a new line processor.
func NewProcessor(
	logger ports.Logger,
	normalizer ports.Normalizer,
	canonicalizer ports.Canonicalizer,
	config ProcessingConfig,
) *Processor {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxLineSize <= 0 {
		config.MaxLineSize = DefaultMaxLineSize
	}

	return &Processor{
		logger:        logger,
		normalizer:    normalizer,
		canonicalizer: canonicalizer,
		config:        config,
	}
}

var _ ports.BatchProcessor = (*Processor)(nil)

// Process reads records from reader and writes canonicalized records to
// writer in input order. Blank lines are skipped; malformed records are
// reported in the summary and left out of the output. The returned error is
// reserved for I/O failures and cancellation.
func (p *Processor) Process(ctx context.Context, reader io.Reader, writer io.Writer) (ports.BatchSummary, error) {
	startTime := time.Now()
	var summary ports.BatchSummary

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, min(initialLineBuffer, p.config.MaxLineSize)), p.config.MaxLineSize)
	out := bufio.NewWriter(writer)

	batch := make([][]byte, 0, p.config.BatchSize)
	firstLine := 1

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results, err := p.processBatch(ctx, batch)
		if err != nil {
			return err
		}
		for i, r := range results {
			switch {
			case r.err != nil:
				lineErr := ports.LineError{Line: firstLine + i, Err: r.err}
				summary.Errors = append(summary.Errors, lineErr)
				p.logger.Warn("Skipping malformed record", "line", lineErr.Line, "error", r.err)
			case r.kind == kindSkipped:
				summary.Skipped++
			default:
				if r.kind == kindAnnotation {
					summary.Annotations++
				} else {
					summary.Utterances++
				}
				if _, err := out.Write(r.data); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				if err := out.WriteByte('\n'); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
		}
		firstLine += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		summary.Lines++
		summary.BytesProcessed += int64(len(line)) + 1
		batch = append(batch, append([]byte(nil), line...))
		if len(batch) >= p.config.BatchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read input: %w", err)
	}
	if err := flush(); err != nil {
		return summary, err
	}
	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("failed to write output: %w", err)
	}

	summary.ProcessingTime = time.Since(startTime)
	p.logger.Info("Batch processed",
		"lines", summary.Lines,
		"utterances", summary.Utterances,
		"annotations", summary.Annotations,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors),
		"bytes", summary.BytesProcessed,
		"duration", summary.ProcessingTime,
	)
	return summary, nil
}

// processBatch runs one batch on the worker pool. Results keep line order.
func (p *Processor) processBatch(ctx context.Context, lines [][]byte) ([]outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]outcome, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processLine(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) processLine(line []byte) outcome {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return outcome{kind: kindSkipped}
	}
	if !gjson.ValidBytes(line) {
		return outcome{err: errInvalidJSON}
	}
	record := gjson.ParseBytes(line)
	if !record.IsObject() {
		return outcome{err: errNotObject}
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(line, &fields); err != nil {
		return outcome{err: err}
	}

	// Unknown domain names fall back to Unspecified and pass through.
	d, _ := domain.ParseDomain(record.Get("domain").String())
	subs := p.substitutions(record)

	var kind recordKind
	if slotField := record.Get("slot"); slotField.Exists() {
		s, v := p.canonicalizer.Canonicalize(d, slotField.String(), record.Get("value").String(), subs)
		fields["slot"] = quote(s)
		fields["value"] = quote(v)
		kind = kindAnnotation
	} else if text := record.Get("text"); text.Exists() {
		fields["text"] = quote(p.normalizer.Normalize(text.String(), subs, d))
		kind = kindUtterance
	} else {
		return outcome{err: errNoFields}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{data: data, kind: kind}
}

func (p *Processor) substitutions(record gjson.Result) []domain.Substitution {
	extra := record.Get("substitutions")
	if !extra.IsArray() {
		return p.config.Substitutions
	}
	subs := make([]domain.Substitution, 0, len(p.config.Substitutions)+int(extra.Get("#").Int()))
	subs = append(subs, p.config.Substitutions...)
	extra.ForEach(func(_, v gjson.Result) bool {
		if from := v.Get("from").String(); from != "" {
			subs = append(subs, domain.Substitution{From: from, To: v.Get("to").String()})
		}
		return true
	})
	return subs
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
