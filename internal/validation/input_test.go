package validation

import "testing"

func TestIMDbID(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"tt0133093", true},
		{"tt0944947", true},
		{"tt1", true},
		{"0133093", false},
		{"ttabc", false},
		{"tt", false},
		{"", false},
		{"TT0133093", false},
		{"tt0133093 ", false},
		{"xtt0133093", false},
	}

	for _, tt := range tests {
		if got := IMDbID(tt.input); got != tt.expected {
			t.Errorf("IMDbID(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestOptionalNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{" ", true},
		{"1", true},
		{"12", true},
		{" 3 ", true},
		{"S01", false},
		{"-1", false},
		{"1.5", false},
	}

	for _, tt := range tests {
		if got := OptionalNumber(tt.input); got != tt.expected {
			t.Errorf("OptionalNumber(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNonEmpty(t *testing.T) {
	if NonEmpty("") || NonEmpty("  \t") {
		t.Error("blank input should be rejected")
	}
	if !NonEmpty("Planet Earth") {
		t.Error("a title should be accepted")
	}
}
