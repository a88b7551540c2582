package normalizer

import (
	"strconv"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/rewrite"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
)

// timeRules canonicalizes time expressions to HH:MM. Each rule assumes the
// text left by the ones above it.
var timeRules = rewrite.Rules{
	// "9 am" -> "9am", "9 p.m" -> "9p.m"
	rewrite.Regex(`(\d+) ([ap]\.?m)`, "${1}${2}"),
	// "9:45" -> "09:45"; a trailing "am" is consumed
	rewrite.Regex(`(\d:\d+)(?:am)?`, "0${1}").NotAfterDigit(),
	// "9am" -> "09:00"
	rewrite.Regex(`(\d)am`, "0${1}:00").NotAfterDigit(),
	// "9pm" -> "21:00", "12pm" -> "24:00"; the minutes of "2:30pm" are left
	// for the next rule
	rewrite.RegexFunc(`(\d{1,2})pm`, func(g []string) string {
		return addTwelve(g[1]) + ":00"
	}).NotAfterAny("0123456789:"),
	// "2:30pm" -> "14:30"
	rewrite.RegexFunc(`(\d+)(:\d+)pm`, func(g []string) string {
		return addTwelve(g[1]) + g[2]
	}),
	// leftover "10am", "10a.m" -> "10"
	rewrite.Regex(`(\d+)a\.?m`, "${1}"),
}

func addTwelve(hour string) string {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return hour
	}
	return strconv.Itoa(h + 12)
}

// TimeNormalizer implements ports.TimeNormalizer with the static rule list.
type TimeNormalizer struct{}

// NewTimeNormalizer creates a new time normalizer.
func NewTimeNormalizer() ports.TimeNormalizer {
	return &TimeNormalizer{}
}

// NormalizeTime rewrites time expressions in text to 24-hour HH:MM.
func (n *TimeNormalizer) NormalizeTime(text string) string {
	return timeRules.Apply(text)
}
