package versions

import "regexp"

var (
	// YYYY-MM-DD optionally followed by dotted numeric disambiguators,
	// e.g. "2021-06-01" or "2021-06-01.2".
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:\.\d+)*$`)

	// Dot-separated numeric segments, e.g. "1", "1.2", "1.2.0".
	relaxedPattern = regexp.MustCompile(`^\d+(?:\.\d+)*$`)
)

// SuggestScheme inspects a version text recorded under the given scheme and
// returns a more specific scheme when one applies. It only ever suggests a
// replacement for the opaque string scheme: date-shaped texts suggest
// SchemeDate, dotted-numeric texts suggest SchemeRelaxed, with date taking
// precedence. The second return value is false when no suggestion applies.
//
// Pure classification; callers decide whether a suggestion is fatal.
func SuggestScheme(text string, recorded Scheme) (Scheme, bool) {
	if recorded != SchemeString {
		return "", false
	}
	if datePattern.MatchString(text) {
		return SchemeDate, true
	}
	if relaxedPattern.MatchString(text) {
		return SchemeRelaxed, true
	}
	return "", false
}
