package paths

import (
	"strings"
	"testing"
)

func TestSafeFragment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain word", in: "python", want: "python"},
		{name: "spaces to underscores", in: "machine learning", want: "machine_learning"},
		{name: "punctuation stripped", in: "what is C++?", want: "what_is_C"},
		{name: "hyphens collapse", in: "state-of-the-art models", want: "state_of_the_art_models"},
		{name: "mixed runs", in: "  quantum -  computing  ", want: "quantum_computing"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "?!...", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFragment(tt.in); got != tt.want {
				t.Errorf("SafeFragment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeFragment_CapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 20)
	got := SafeFragment(long)
	if len(got) > SafeFragmentMaxLen {
		t.Errorf("len(SafeFragment) = %d, want <= %d", len(got), SafeFragmentMaxLen)
	}
}

func TestExpandHome_NoTilde(t *testing.T) {
	if got := ExpandHome("/tmp/x"); got != "/tmp/x" {
		t.Errorf("ExpandHome(/tmp/x) = %q", got)
	}
}

func TestExpandHome_Tilde(t *testing.T) {
	got := ExpandHome("~/reports")
	if strings.HasPrefix(got, "~") {
		t.Errorf("ExpandHome(~/reports) = %q, tilde not expanded", got)
	}
	if !strings.HasSuffix(got, "/reports") {
		t.Errorf("ExpandHome(~/reports) = %q, want /reports suffix", got)
	}
}

func TestDocumentsDir_NeverEmpty(t *testing.T) {
	if DocumentsDir() == "" {
		t.Error("DocumentsDir() returned empty string")
	}
	if PicturesDir() == "" {
		t.Error("PicturesDir() returned empty string")
	}
}
