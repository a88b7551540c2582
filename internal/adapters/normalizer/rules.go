package normalizer

import (
	"strings"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/rewrite"
)

// punctuation is applied before the time rules. All keys are single
// characters, so one replacer pass is equivalent to sequential replacement.
var punctuation = strings.NewReplacer(
	"`", "",
	"’", "'",
	"‘", "'",
	";", ",",
	`"`, " ",
	"/", " and ",
)

// repairRules fixes known transcription artifacts. Broken postcodes come
// first so that the generic rules below never see their fragments.
var repairRules = rewrite.Rules{
	rewrite.Regex(`c\.b (\d), (\d) ([a-z])\.([a-z])`, "cb${1}${2}${3}${4}"),
	rewrite.Literal("c.b. 1 7 d.y", "cb17dy"),
	rewrite.Literal("c.b.1 7 d.y", "cb17dy"),
	rewrite.Literal("c.b 25, 9 a.q", "cb259aq"),
	rewrite.Literal("isc.b 25, 9 a.q", "is cb259aq"),
	rewrite.Literal("c.b2, 1 u.f", "cb21uf"),
	rewrite.Literal("c.b 1,2 q.a", "cb12qa"),
	rewrite.Literal("0-122-336-5664", "01223365664"),
	rewrite.Literal("postcodecb21rs", "postcode cb21rs"),
	rewrite.Regex(`i\.d`, "id"),
	rewrite.Literal(" i d ", " id "),
	rewrite.Literal("telephone:01223358966", "telephone: 01223358966"),
	rewrite.Literal("depature", "departure"),
	rewrite.Literal("depearting", "departing"),
	rewrite.Literal("-type", " type"),
	rewrite.Regex(`b\s?&\s?b`, "bed and breakfast"),
	rewrite.Literal("b and b", "bed and breakfast"),
	rewrite.Regex(`guesthouses?`, "guest house"),
	rewrite.Regex(`swimmingpools?`, "swimming pool"),
	rewrite.Literal("wo n't", "will not"),
	rewrite.Literal("won't", "will not"),
	rewrite.Literal(" 'd ", " would "),
	rewrite.Literal(" 'm ", " am "),
	rewrite.Literal(" 're ", " are "),
	rewrite.Literal(" 'll ", " will "),
	rewrite.Literal(" 've ", " have "),
	rewrite.Regex(`^'`, ""),
	rewrite.Regex(`'$`, ""),
}

// sentenceRules split periods that separate words. They are skipped for
// person names, which carry name-internal periods.
var sentenceRules = rewrite.Rules{
	// "abc.xyz" -> "abc . xyz"
	rewrite.Regex(`([a-z]+)\.([a-z])`, "${1} . ${2}"),
	// "abc. " -> "abc . "
	rewrite.Regex(`([\p{L}\p{N}_]+)\.\.? `, "${1} . "),
}
