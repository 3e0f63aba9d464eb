package abstract

import (
	"regexp"
	"strings"
)

var (
	codeTokenPattern  = regexp.MustCompile(`^[A-Z0-9]+$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ParseFilename derives abstract metadata from a raw filename. The extension
// after the last dot is stripped, then the remaining text is searched for the
// first ABS-digits pattern. Text before the match becomes the author candidate
// after separator cleanup; a candidate made entirely of code-looking tokens
// (all caps/digits) is rejected. Without an ABS match the stripped name is
// kept as the title and nothing else is derived.
func ParseFilename(name string) ParsedFilename {
	base := name
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}

	loc := idPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return ParsedFilename{
			Title:       base,
			RawFilename: name,
		}
	}

	// Digits are preserved as found; normalization is the merge's job.
	digits := base[loc[2]:loc[3]]
	id := "ABS-" + digits

	return ParsedFilename{
		AbstractID:  id,
		Author:      cleanAuthor(base[:loc[0]]),
		Title:       id,
		RawFilename: name,
	}
}

// cleanAuthor turns the text preceding an ABS match into a human name, or ""
// when nothing name-like survives cleanup.
func cleanAuthor(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	// "New" suffixes are copy-of-a-copy artifacts, not part of the name.
	tokens := strings.Fields(s)
	if len(tokens) > 0 && strings.EqualFold(tokens[len(tokens)-1], "New") {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return ""
	}
	allCodes := true
	for _, tok := range tokens {
		if !codeTokenPattern.MatchString(tok) {
			allCodes = false
			break
		}
	}
	if allCodes {
		return ""
	}
	return strings.Join(tokens, " ")
}
