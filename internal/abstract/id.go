package abstract

import (
	"regexp"
	"strconv"
)

// idPattern matches the first "ABS-" digit run anywhere in a string,
// case-insensitively. Leading zeros are tolerated and stripped during
// normalization.
var idPattern = regexp.MustCompile(`(?i)abs-(\d+)`)

// NormalizeID locates the first ABS-digits pattern in s and returns the
// canonical "ABS-{n}" form with no leading zeros. The second return is false
// when s contains no such pattern or the digit run does not fit an integer.
func NormalizeID(s string) (string, bool) {
	m := idPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return "", false
	}
	return "ABS-" + strconv.FormatUint(n, 10), true
}

// IDNumber extracts the numeric component of an ABS identifier for sorting.
// Returns false for strings without a parseable ABS pattern.
func IDNumber(s string) (uint64, bool) {
	m := idPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
