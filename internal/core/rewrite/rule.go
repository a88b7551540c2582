// Package rewrite applies ordered regular-expression rewrite lists.
//
// A rule list is applied strictly in sequence: every rule sees the text as
// left by the rules before it, so the order of a list is part of its meaning.
package rewrite

import (
	"regexp"
	"strings"
)

// Rule is a single (pattern, replacement) step.
type Rule struct {
	Pattern *regexp.Regexp
	// Template is expanded with regexp group syntax (${1}) when Func is nil.
	Template string
	// Func computes the replacement from the submatches, index 0 being the
	// whole match. Unmatched optional groups are empty strings.
	Func func(groups []string) string
	// NotAfter lists bytes that may not precede a match. A rejected match
	// is retried from the next byte. It stands in for a look-behind such as
	// (?<!\d).
	NotAfter string

	literal bool
}

// Literal builds a rule that replaces every occurrence of from with to,
// both taken verbatim.
func Literal(from, to string) Rule {
	return Rule{Pattern: regexp.MustCompile(regexp.QuoteMeta(from)), Template: to, literal: true}
}

// Regex builds a template rule.
func Regex(expr, template string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Template: template}
}

// RegexFunc builds a rule whose replacement is computed from the groups.
func RegexFunc(expr string, fn func(groups []string) string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Func: fn}
}

const digits = "0123456789"

// NotAfterDigit returns a copy of r that only matches where the preceding
// byte is not a digit.
func (r Rule) NotAfterDigit() Rule {
	return r.NotAfterAny(digits)
}

// NotAfterAny returns a copy of r that only matches where the preceding
// byte is not one of set.
func (r Rule) NotAfterAny(set string) Rule {
	r.NotAfter = set
	return r
}

// Apply rewrites every non-overlapping match in s.
func (r Rule) Apply(s string) string {
	if r.literal {
		return r.Pattern.ReplaceAllLiteralString(s, r.Template)
	}
	if r.NotAfter == "" {
		return r.replace(s, r.Pattern.FindAllStringSubmatchIndex(s, -1))
	}
	return r.replace(s, r.scanGuarded(s))
}

// scanGuarded collects match locations, retrying one byte after the start
// of every match that follows a byte in r.NotAfter. Patterns used this way must not
// rely on ^ or \b since matching restarts inside s.
func (r Rule) scanGuarded(s string) [][]int {
	var locs [][]int
	pos := 0
	for pos <= len(s) {
		loc := r.Pattern.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, end := loc[0], loc[1]
		if start > 0 && strings.IndexByte(r.NotAfter, s[start-1]) >= 0 {
			pos = start + 1
			continue
		}
		locs = append(locs, loc)
		if end == start {
			end++
		}
		pos = end
	}
	return locs
}

func (r Rule) replace(s string, locs [][]int) string {
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		if r.Func != nil {
			b.WriteString(r.Func(groups(s, loc)))
		} else {
			b.Write(r.Pattern.ExpandString(nil, r.Template, s, loc))
		}
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func groups(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

// Rules is an ordered rewrite list.
type Rules []Rule

// Apply runs every rule in order, feeding each the output of the previous one.
func (rs Rules) Apply(s string) string {
	for _, r := range rs {
		s = r.Apply(s)
	}
	return s
}
