package ports

import "github.com/baditaflorin/go_slot_normalizer/internal/core/domain"

// Canonicalizer maps a (domain, slot, value) triple to its canonical slot and value.
type Canonicalizer interface {
	Canonicalize(d domain.Domain, slot, value string, subs []domain.Substitution) (string, string)
}

// SlotNameMapper renames slots. ok is false when the slot has no mapping.
type SlotNameMapper interface {
	Lookup(slot string) (string, bool)
}
