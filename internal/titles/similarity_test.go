package titles

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"shining", "shiming", 1},
		{"fleau", "fléau", 1},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.expected)
		}
		if got := Levenshtein(tt.s2, tt.s1); got != tt.expected {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.s2, tt.s1, got, tt.expected)
		}
	}
}

func TestIsSimilar(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "single substitution", a: "The Shining", b: "The Shiming", expected: true},
		{name: "case only variant below length floor", a: "it", b: "It", expected: false},
		{name: "exact short match", a: "it", b: "it", expected: true},
		{name: "empty left", a: "", b: "carrie", expected: false},
		{name: "empty right", a: "carrie", b: "", expected: false},
		{name: "both empty", a: "", b: "", expected: false},
		{name: "typo in french title", a: "cle des vents", b: "clar des vents", expected: true},
		{name: "short words differ", a: "rage", b: "page", expected: false},
		{name: "different works", a: "misery", b: "christine", expected: false},
		{name: "sequel is not the same work", a: "doctor sleep", b: "doctor sleeps in", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b); got != tt.expected {
				t.Errorf("Similar(%q, %q) = %v, want %v (ratio %.3f)", tt.a, tt.b, got, tt.expected, Ratio(tt.a, tt.b))
			}
		})
	}
}

func TestIsSimilarReflexive(t *testing.T) {
	for _, s := range []string{"a", "it", "carrie", "the long walk", "fleau", "x y z"} {
		if !Similar(s, s) {
			t.Errorf("Similar(%q, %q) = false, want true", s, s)
		}
	}
}

func TestIsSimilarThreshold(t *testing.T) {
	// "shining" vs "shiming": 1 edit over 7 runes, ratio ~0.857
	if !IsSimilar("shining", "shiming", 0.85) {
		t.Error("Expected match at 0.85")
	}
	if IsSimilar("shining", "shiming", 0.9) {
		t.Error("Expected no match at 0.9")
	}
}
