package utils

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain shelf name untouched", input: "currently-reading", want: "currently-reading"},
		{name: "path separators stripped", input: "sci/fi\\fantasy", want: "scififantasy"},
		{name: "invalid characters stripped", input: `to-read: "maybe"?`, want: "to-read maybe"},
		{name: "whitespace normalized", input: "my\tfavourite\nbooks", want: "my favourite books"},
		{name: "multiple spaces collapsed", input: "read   twice", want: "read twice"},
		{name: "empty becomes untitled", input: "///", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := SanitizeFilename(long)
	if len(got) > 200 {
		t.Errorf("expected at most 200 characters, got %d", len(got))
	}
}
