package normalizer

import (
	"strings"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/pool"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer implements the lexical cleanup applied to utterances and
// slot values.
type TextNormalizer struct {
	casers *pool.CaserPool
	time   ports.TimeNormalizer
}

// NewTextNormalizer creates a text normalizer. A nil time normalizer selects
// the default one.
func NewTextNormalizer(tn ports.TimeNormalizer) *TextNormalizer {
	if tn == nil {
		tn = NewTimeNormalizer()
	}
	return &TextNormalizer{
		casers: pool.NewCaserPool(),
		time:   tn,
	}
}

// Normalize composes and lowercases text, then applies punctuation, contraction, time and
// repair rules in that order, followed by the caller's substitutions.
func (n *TextNormalizer) Normalize(text string, subs []domain.Substitution, d domain.Domain) string {
	text = n.casers.Lower(norm.NFC.String(strings.TrimSpace(text)))
	if text == "" {
		return ""
	}

	text = punctuation.Replace(text)
	text = strings.ReplaceAll(text, "don't", "do n't")
	text = n.time.NormalizeTime(text)
	text = repairRules.Apply(text)

	if d != domain.People {
		text = sentenceRules.Apply(text)
	}

	return Substitute(text, subs)
}

// Substitute applies whole-word replacements in order. Words are delimited
// by single spaces; the text is padded so matches may touch either end.
func Substitute(text string, subs []domain.Substitution) string {
	for _, s := range subs {
		padded := " " + text + " "
		padded = strings.ReplaceAll(padded, " "+s.From+" ", " "+s.To+" ")
		text = padded[1 : len(padded)-1]
	}
	return text
}
