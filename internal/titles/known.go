package titles

import (
	"sort"
	"strings"
)

// KnownSet holds the titles already present in the catalog, in both original
// and translated form, together with their normalized keys. It only grows.
type KnownSet struct {
	raw        map[string]struct{}
	normalized map[string]struct{}
}

// NewKnownSet returns a set seeded with the given titles.
func NewKnownSet(titles ...string) *KnownSet {
	k := &KnownSet{
		raw:        make(map[string]struct{}, len(titles)),
		normalized: make(map[string]struct{}, len(titles)),
	}
	k.Add(titles...)
	return k
}

// Add records titles; blank ones are ignored.
func (k *KnownSet) Add(titles ...string) {
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k.raw[t] = struct{}{}
		if key := Normalize(t); key != "" {
			k.normalized[key] = struct{}{}
		}
	}
}

// Len returns the number of raw titles.
func (k *KnownSet) Len() int {
	return len(k.raw)
}

// Titles returns the raw titles, sorted.
func (k *KnownSet) Titles() []string {
	out := make([]string, 0, len(k.raw))
	for t := range k.raw {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasKey reports whether a normalized key is known exactly.
func (k *KnownSet) HasKey(key string) bool {
	_, ok := k.normalized[key]
	return ok
}

// SimilarKey returns the first known key that Similar considers the same work
// as key, in sorted order so that results are stable.
func (k *KnownSet) SimilarKey(key string) (string, bool) {
	return k.SimilarKeyAt(key, DefaultThreshold)
}

// SimilarKeyAt is SimilarKey with an explicit threshold.
func (k *KnownSet) SimilarKeyAt(key string, threshold float64) (string, bool) {
	keys := make([]string, 0, len(k.normalized))
	for existing := range k.normalized {
		keys = append(keys, existing)
	}
	sort.Strings(keys)

	for _, existing := range keys {
		if IsSimilar(key, existing, threshold) {
			return existing, true
		}
	}
	return "", false
}
