package titles

import (
	"regexp"
	"strings"
)

// editionSuffixes remove re-issue qualifiers from an already normalized key.
// Order matters: "the complete" must go before the bare "complete uncut" rule.
var editionSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+the\s+complete.*$`),
	regexp.MustCompile(`(?i)\s+complete\s*(?:and\s*)?uncut.*$`),
	regexp.MustCompile(`(?i)\s+uncut\s*edition.*$`),
	regexp.MustCompile(`(?i)\s+expanded\s*edition.*$`),
	regexp.MustCompile(`(?i)\s+special\s*edition.*$`),
	regexp.MustCompile(`(?i)\s+illustrated\s*edition.*$`),
	regexp.MustCompile(`(?i)\s+directors\s*cut.*$`),
	regexp.MustCompile(`(?i)\s+\d{4}\s*edition.*$`),
}

// BaseTitle strips edition variants ("complete and uncut edition",
// "directors cut", "2020 edition") from a normalized key, exposing the title of
// the underlying work. Applying it twice is the same as applying it once.
func BaseTitle(key string) string {
	result := key
	for _, pattern := range editionSuffixes {
		result = pattern.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}
