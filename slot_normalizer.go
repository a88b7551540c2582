// Package slotnormalizer canonicalizes task-oriented dialogue text and slot
// annotations.
//
// Three stages run in a fixed order for every value:
//
//	text cleanup -> time rewriting -> per-domain slot value correction
//
// Utterances only go through the first two. Annotations go through all three
// and finish with an optional slot-name mapping. Every rule is static, so a
// Normalizer is safe for concurrent use once built.
package slotnormalizer

import (
	"sync"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/mapping"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/slot"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"github.com/baditaflorin/l"
)

// Domain is a task category such as Hotel or Train.
type Domain = domain.Domain

// Domains.
const (
	Unspecified = domain.Unspecified
	Attraction  = domain.Attraction
	Hotel       = domain.Hotel
	Restaurant  = domain.Restaurant
	Taxi        = domain.Taxi
	Train       = domain.Train
	People      = domain.People
	Hospital    = domain.Hospital
	Police      = domain.Police
)

// ParseDomain maps a lowercase identifier to a Domain.
func ParseDomain(name string) (Domain, bool) { return domain.ParseDomain(name) }

// Substitution is a caller-supplied whole-word replacement.
type Substitution = domain.Substitution

// SlotValue is a (domain, slot, value) annotation.
type SlotValue = domain.SlotValue

// Result is a canonicalized annotation.
type Result = domain.Result

// NotMentionedPolicy controls the handling of the literal "not mentioned".
type NotMentionedPolicy = domain.NotMentionedPolicy

// Policies.
const (
	NotMentionedDrop = domain.NotMentionedDrop
	NotMentionedKeep = domain.NotMentionedKeep
)

// SlotNameMapper renames slot keys as the last canonicalization step.
type SlotNameMapper = ports.SlotNameMapper

// DontCare is the canonical "no preference" value.
const DontCare = slot.DontCare

// Option defines a functional option for configuring a Normalizer.
type Option func(*normalizerConfig)

type normalizerConfig struct {
	Logger        ports.Logger
	Policy        NotMentionedPolicy
	Mapper        SlotNameMapper
	Substitutions []Substitution
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *normalizerConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithoutLogging discards all log output.
func WithoutLogging() Option {
	return func(cfg *normalizerConfig) {
		cfg.Logger = logger.NewNopLogger()
	}
}

// WithNotMentionedPolicy selects how "not mentioned" values are treated.
func WithNotMentionedPolicy(p NotMentionedPolicy) Option {
	return func(cfg *normalizerConfig) {
		cfg.Policy = p
	}
}

// WithSlotNameMapper sets the mapping consulted after all corrections.
func WithSlotNameMapper(m SlotNameMapper) Option {
	return func(cfg *normalizerConfig) {
		cfg.Mapper = m
	}
}

// WithSlotNameMapping is WithSlotNameMapper over a plain map.
func WithSlotNameMapping(names map[string]string) Option {
	return func(cfg *normalizerConfig) {
		cfg.Mapper = mapping.NewStaticMapper(names)
	}
}

// WithSubstitutions sets substitutions applied on every call, ahead of any
// passed per call.
func WithSubstitutions(subs []Substitution) Option {
	return func(cfg *normalizerConfig) {
		cfg.Substitutions = append([]Substitution(nil), subs...)
	}
}

// Normalizer runs the text, time and slot value stages.
type Normalizer struct {
	text          ports.Normalizer
	time          ports.TimeNormalizer
	canonicalizer ports.Canonicalizer
	logger        ports.Logger
	subs          []Substitution
}

// New creates a new Normalizer instance.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*Normalizer, error) {
	config := &normalizerConfig{Policy: NotMentionedDrop}
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		lg, err := logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
		config.Logger = lg
	}

	tn := normalizer.NewTimeNormalizer()
	text := normalizer.NewTextNormalizer(tn)

	canonicalizer, err := slot.NewCanonicalizer(slot.Config{
		Policy: config.Policy,
		Mapper: config.Mapper,
	}, config.Logger, text, tn)
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		text:          text,
		time:          tn,
		canonicalizer: canonicalizer,
		logger:        config.Logger,
		subs:          config.Substitutions,
	}, nil
}

// Normalize cleans an utterance with no domain.
func (n *Normalizer) Normalize(text string) string {
	return n.NormalizeWith(text, nil, Unspecified)
}

// NormalizeWith cleans text, applying subs after the static rules. Periods
// inside words are kept when d is People.
func (n *Normalizer) NormalizeWith(text string, subs []Substitution, d Domain) string {
	out := n.text.Normalize(text, n.substitutions(subs), d)
	n.logger.Debug("Normalized text",
		"domain", d.String(),
		"input", text,
		"output", out,
	)
	return out
}

// NormalizeTime rewrites time expressions in text to HH:MM.
func (n *Normalizer) NormalizeTime(text string) string {
	return n.time.NormalizeTime(text)
}

// Canonicalize returns the canonical slot name and value for an annotation.
func (n *Normalizer) Canonicalize(d Domain, slotName, value string, subs []Substitution) (string, string) {
	s, v := n.canonicalizer.Canonicalize(d, slotName, value, n.substitutions(subs))
	n.logger.Debug("Canonicalized slot value",
		"domain", d.String(),
		"slot", slotName,
		"value", value,
		"canonical_slot", s,
		"canonical_value", v,
	)
	return s, v
}

// CanonicalizeSlotValue is Canonicalize over a SlotValue.
func (n *Normalizer) CanonicalizeSlotValue(sv SlotValue, subs []Substitution) Result {
	s, v := n.Canonicalize(sv.Domain, sv.Slot, sv.Value, subs)
	return Result{Slot: s, Value: v}
}

// Close releases the logger.
func (n *Normalizer) Close() error {
	return n.logger.Close()
}

func (n *Normalizer) substitutions(subs []Substitution) []Substitution {
	if len(n.subs) == 0 {
		return subs
	}
	if len(subs) == 0 {
		return n.subs
	}
	all := make([]Substitution, 0, len(n.subs)+len(subs))
	all = append(all, n.subs...)
	return append(all, subs...)
}

var (
	defaultOnce       sync.Once
	defaultNormalizer *Normalizer
)

func quiet() *Normalizer {
	defaultOnce.Do(func() {
		// Only a nil logger can make New fail.
		defaultNormalizer, _ = New(WithoutLogging())
	})
	return defaultNormalizer
}

// NormalizeText cleans text with the default silent Normalizer.
func NormalizeText(text string, subs []Substitution, d Domain) string {
	return quiet().NormalizeWith(text, subs, d)
}

// NormalizeTime rewrites time expressions with the default rules.
func NormalizeTime(text string) string {
	return quiet().NormalizeTime(text)
}

// Canonicalize canonicalizes an annotation with the default silent
// Normalizer: "not mentioned" is dropped and no slot-name mapping is used.
func Canonicalize(d Domain, slotName, value string, subs []Substitution) (string, string) {
	return quiet().Canonicalize(d, slotName, value, subs)
}
