// Package slot canonicalizes (domain, slot, value) annotations.
package slot

import (
	"errors"
	"sort"
	"strings"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
)

// Config holds configuration for the canonicalizer.
type Config struct {
	Policy domain.NotMentionedPolicy
	// Mapper renames slots after all other steps. Nil means no renames.
	Mapper ports.SlotNameMapper
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Policy: domain.NotMentionedDrop}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Policy != domain.NotMentionedDrop && c.Policy != domain.NotMentionedKeep {
		return errors.New("unknown not-mentioned policy")
	}
	return nil
}

// Canonicalizer implements ports.Canonicalizer over the static correction table.
type Canonicalizer struct {
	config     Config
	logger     ports.Logger
	normalizer ports.Normalizer
	time       ports.TimeNormalizer
}

// NewCanonicalizer creates a new canonicalizer.
func NewCanonicalizer(config Config, logger ports.Logger, normalizer ports.Normalizer, tn ports.TimeNormalizer) (*Canonicalizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil || normalizer == nil || tn == nil {
		return nil, errors.New("logger, normalizer and time normalizer are required")
	}

	return &Canonicalizer{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
		time:       tn,
	}, nil
}

// Canonicalize returns the canonical slot name and value. It never fails:
// unknown domains and slots pass through, invalid values become empty.
func (c *Canonicalizer) Canonicalize(d domain.Domain, slot, value string, subs []domain.Substitution) (string, string) {
	slot = strings.ToLower(strings.TrimSpace(slot))
	value = c.normalizer.Normalize(value, subs, d)

	rule := correctionTable[d][slot]

	switch {
	case value == "":
	case value == NotMentioned:
		if c.config.Policy == domain.NotMentionedDrop {
			value = ""
		}
	case rule != nil:
		if rule.rename != "" {
			slot = rule.rename
		}
		fixed, changed := rule.correct(value)
		if changed {
			c.logger.Debug("Corrected slot value",
				"domain", d.String(),
				"slot", slot,
				"from", value,
				"to", fixed,
			)
		}
		value = fixed
		if rule.timeValued {
			value = c.time.NormalizeTime(strings.ReplaceAll(value, ".", ":"))
		}
	}

	if indifferent[value] {
		value = DontCare
	}

	if c.config.Mapper != nil {
		if mapped, ok := c.config.Mapper.Lookup(slot); ok && mapped != "" {
			slot = mapped
		}
	}

	return slot, value
}

// GoldenCases lists every malformed value in the correction table, in a
// stable order. They double as regression inputs.
func GoldenCases() []domain.SlotValue {
	var cases []domain.SlotValue
	for d, table := range correctionTable {
		for name, rule := range table {
			for _, malformed := range rule.fixes {
				for _, m := range malformed {
					cases = append(cases, domain.SlotValue{Domain: d, Slot: name, Value: m})
				}
			}
		}
	}
	sort.Slice(cases, func(i, j int) bool {
		a, b := cases[i], cases[j]
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Value < b.Value
	})
	return cases
}
