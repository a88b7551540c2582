package domain

import "strings"

// Domain is the task category a slot belongs to.
type Domain int

const (
	// Unspecified is used when no domain is known.
	Unspecified Domain = iota
	Attraction
	Hotel
	Restaurant
	Taxi
	Train
	// People marks values that are person names. Name-internal periods
	// are left untouched for this domain.
	People
	Hospital
	Police
)

var domainNames = [...]string{
	Unspecified: "",
	Attraction:  "attraction",
	Hotel:       "hotel",
	Restaurant:  "restaurant",
	Taxi:        "taxi",
	Train:       "train",
	People:      "people",
	Hospital:    "hospital",
	Police:      "police",
}

// String returns the lowercase identifier of the domain.
func (d Domain) String() string {
	if d < 0 || int(d) >= len(domainNames) {
		return ""
	}
	return domainNames[d]
}

// ParseDomain maps an identifier to a Domain. Matching ignores case and
// surrounding whitespace. The second result is false for unknown names,
// which map to Unspecified.
func ParseDomain(name string) (Domain, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Unspecified, true
	}
	for i, n := range domainNames {
		if i > 0 && n == name {
			return Domain(i), true
		}
	}
	return Unspecified, false
}

// Substitution is a whole-word replacement supplied by the caller.
type Substitution struct {
	From string `json:"from" yaml:"from" mapstructure:"from" validate:"required"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// SlotValue is a single (domain, slot, value) annotation.
type SlotValue struct {
	Domain Domain
	Slot   string
	Value  string
}

// NotMentionedPolicy controls how the literal "not mentioned" is treated.
type NotMentionedPolicy int

const (
	// NotMentionedDrop rewrites "not mentioned" to the empty value.
	NotMentionedDrop NotMentionedPolicy = iota
	// NotMentionedKeep keeps the literal, as dialogue state tracking
	// setups expect.
	NotMentionedKeep
)

// ParseNotMentionedPolicy accepts "drop" or "keep".
func ParseNotMentionedPolicy(s string) (NotMentionedPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return NotMentionedDrop, true
	case "keep":
		return NotMentionedKeep, true
	}
	return NotMentionedDrop, false
}

func (p NotMentionedPolicy) String() string {
	if p == NotMentionedKeep {
		return "keep"
	}
	return "drop"
}

// Result holds a canonicalized annotation.
type Result struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}
