package merger

import (
	"testing"

	"github.com/agent-king/bibliography/internal/titles"
)

func TestExistsTiers(t *testing.T) {
	projection := NewProjection([]string{
		"Le Fléau",
		"It",
		"Rage: Special Edition",
		"Joy Special Edition",
	})

	tests := []struct {
		name     string
		title    string
		minLen   int
		exists   bool
		expected Tier
	}{
		{name: "exact key", title: "LE FLEAU", minLen: 3, exists: true, expected: TierExact},
		{name: "base equals known key", title: "Le Fleau: Complete & Uncut Edition", minLen: 3, exists: true, expected: TierBaseKey},
		{name: "base equals short known key", title: "It: Special Edition", minLen: 3, exists: true, expected: TierBaseKey},
		{name: "shared base above floor", title: "Rage - Expanded Edition", minLen: 3, exists: true, expected: TierSharedBase},
		{name: "shared base at floor", title: "Rage - Expanded Edition", minLen: 4, exists: false, expected: TierNone},
		{name: "three letter base is guarded", title: "Joy 2020 Edition", minLen: 3, exists: false, expected: TierNone},
		{name: "three letter base with guard lowered", title: "Joy 2020 Edition", minLen: 2, exists: true, expected: TierSharedBase},
		{name: "unknown title", title: "Fairy Tale", minLen: 3, exists: false, expected: TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, tier := Exists(titles.Normalize(tt.title), projection, tt.minLen)
			if exists != tt.exists || tier != tt.expected {
				t.Errorf("Exists(%q) = %v, %s; want %v, %s", tt.title, exists, tier, tt.exists, tt.expected)
			}
		})
	}
}

func TestExistsEmpty(t *testing.T) {
	if exists, _ := Exists("", NewProjection([]string{""}), 3); exists {
		t.Error("Expected empty key to never exist")
	}
	if exists, _ := Exists("carrie", nil, 3); exists {
		t.Error("Expected nil projection to hold nothing")
	}
}

func TestMinBaseLengthOption(t *testing.T) {
	if New(Options{}).minBaseLength != DefaultMinBaseLength {
		t.Error("Expected zero option to use the default")
	}
	if New(Options{MinBaseLength: -1}).minBaseLength != 0 {
		t.Error("Expected negative option to disable the guard")
	}
	if New(Options{MinBaseLength: 5}).minBaseLength != 5 {
		t.Error("Expected explicit option to be kept")
	}
}
