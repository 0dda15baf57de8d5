package typoutil

import (
	"testing"
)

// distance is the unbounded edit distance between a and b.
func distance(a, b string, transpositions bool) int {
	runesA, runesB := []rune(a), []rune(b)
	return editDistanceWithLimit(runesA, runesB, len(runesA)+len(runesB), transpositions)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"simple substitution", "kitten", "sitten", 1},
		{"simple insertion", "apple", "applye", 1},
		{"simple deletion", "banana", "banna", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"order matters", "apple", "applye", 1},
		{"order matters reverse", "applye", "apple", 1},
		{"longer strings", "algorithm", "altruistic", 6},
		{"unicode chars (same len)", "cliché", "cliche", 1}, // é -> e is 1 substitution
		{"unicode chars (diff len)", "résumé", "resume", 2}, // é -> e twice is 2 substitutions
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distance(tt.a, tt.b, false)
			if got != tt.want {
				t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDamerauLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "search", "search", 0},
		{"adjacent swap", "serach", "search", 1},
		{"plain substitution", "kitten", "sitten", 1},
		{"empty", "", "abc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distance(tt.a, tt.b, true)
			if got != tt.want {
				t.Errorf("distance(%q, %q, transpositions) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}

	// Without transpositions a swap costs two edits.
	if got := distance("serach", "search", false); got != 2 {
		t.Errorf("distance(serach, search) = %d, want 2", got)
	}
}

func TestDistanceWithLimit(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		maxDistance int
		want        int
	}{
		{"within limit", "aaaaa", "aaabb", 2, 2},
		{"beyond limit returns limit plus one", "aaaaa", "bbbbb", 2, 3},
		{"length difference short-circuits", "abc", "abcdefg", 1, 2},
		{"zero limit exact", "abc", "abc", 0, 0},
		{"zero limit mismatch", "abc", "abd", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editDistanceWithLimit([]rune(tt.a), []rune(tt.b), tt.maxDistance, false)
			if got != tt.want {
				t.Errorf("editDistanceWithLimit(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.maxDistance, got, tt.want)
			}
		})
	}

	if got := editDistanceWithLimit([]rune("serach"), []rune("search"), 1, true); got != 1 {
		t.Errorf("editDistanceWithLimit(serach, search, 1, transpositions) = %d, want 1", got)
	}
}
