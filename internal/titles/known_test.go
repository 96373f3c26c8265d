package titles

import (
	"reflect"
	"testing"
)

func TestKnownSet(t *testing.T) {
	known := NewKnownSet("Le Fléau", "The Stand", "  ", "")

	if known.Len() != 2 {
		t.Fatalf("Expected 2 titles, got %d", known.Len())
	}
	if !known.HasKey("fleau") {
		t.Error("Expected normalized key fleau")
	}
	if !known.HasKey("stand") {
		t.Error("Expected normalized key stand")
	}

	known.Add("Carrie")
	if !known.HasKey("carrie") || known.Len() != 3 {
		t.Error("Expected Add to grow the set")
	}

	expected := []string{"Carrie", "Le Fléau", "The Stand"}
	if got := known.Titles(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Titles() = %v, want %v", got, expected)
	}
}

func TestKnownSetSimilarKey(t *testing.T) {
	known := NewKnownSet("La Clé des vents", "It")

	match, ok := known.SimilarKey(Normalize("La Clar des vents"))
	if !ok || match != "cle des vents" {
		t.Errorf("Expected fuzzy match on cle des vents, got %q (%v)", match, ok)
	}

	if _, ok := known.SimilarKey("is"); ok {
		t.Error("Expected short keys to never fuzzy match")
	}
}

func TestKnownSetSimilarKeyAt(t *testing.T) {
	known := NewKnownSet("La Clé des vents")

	if _, ok := known.SimilarKeyAt(Normalize("La Clar des vents"), 0.95); ok {
		t.Error("Expected no match above the pair's ratio")
	}
	if _, ok := known.SimilarKeyAt(Normalize("La Clar des vents"), 0.8); !ok {
		t.Error("Expected a match below the pair's ratio")
	}
}
