package ports

import "github.com/baditaflorin/go_slot_normalizer/internal/core/domain"

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string, subs []domain.Substitution, d domain.Domain) string
}

// TimeNormalizer rewrites time expressions to HH:MM.
type TimeNormalizer interface {
	NormalizeTime(text string) string
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(text string, subs []domain.Substitution, d domain.Domain) string

// Normalize calls f.
func (f NormalizerFunc) Normalize(text string, subs []domain.Substitution, d domain.Domain) string {
	return f(text, subs, d)
}
