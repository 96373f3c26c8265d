package titles

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Series qualifiers are noise for identity comparison:
	// "The Dark Tower III: The Waste Lands", "La Tour Sombre V : Les Loups de la Calla"
	darkTowerPrefix  = regexp.MustCompile(`^(?:the\s+)?dark\s+tower\s*[ivxlc0-9]*\s*:\s*`)
	tourSombrePrefix = regexp.MustCompile(`^la\s+tour\s+sombre\s*[ivxlc0-9]*\s*:\s*`)

	// "Gwendy's Button Box" -> "Button Box"
	possessiveSeries = regexp.MustCompile(`^gwendy(?:['’]?s)?\s*`)

	leadingArticle = regexp.MustCompile(`^(?:(?:the|a|an|le|la|les|un|une)\s+|l['’]\s*)`)

	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	spaces      = regexp.MustCompile(`\s+`)
)

// stripAccents folds "Fléau" into "Fleau" so that accented and unaccented
// transcriptions share a key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a raw title into a comparison key. The key is only
// ever compared, never displayed.
//
// Normalize(Normalize(s)) == Normalize(s) for every s: the stripping steps are
// repeated until the key stops changing, which covers titles such as
// "'The Shining'" where removing the quotes exposes a leading article.
func Normalize(title string) string {
	key := normalizeOnce(title)
	// Passes after the first only remove characters, so this terminates.
	for {
		next := normalizeOnce(key)
		if next == key {
			return key
		}
		key = next
	}
}

func normalizeOnce(title string) string {
	s := foldAccents(strings.ToLower(strings.TrimSpace(foldSpaces(title))))
	s = stripPrefixes(s)

	s = punctuation.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var prefixes = []*regexp.Regexp{darkTowerPrefix, tourSombrePrefix, possessiveSeries, leadingArticle}

// stripPrefixes removes series qualifiers and articles from the head of s
// until none is left. Only the head is rescanned, so long runs of articles
// cost one pass.
func stripPrefixes(s string) string {
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range prefixes {
			if loc := prefix.FindStringIndex(s); loc != nil && loc[1] > 0 {
				s = strings.TrimLeft(s[loc[1]:], " ")
				stripped = true
			}
		}
	}
	return s
}

// foldSpaces maps no-break and other Unicode spaces to ASCII ones, which is
// all the patterns above match.
func foldSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

func foldAccents(s string) string {
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return folded
}
