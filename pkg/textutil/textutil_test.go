// ABOUTME: Tests for shared text normalization helpers
// ABOUTME: Whitespace collapsing and list cleanup edge cases

package textutil

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\none\ttabs", "line one tabs"},
		{"already clean", "already clean"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanLines(t *testing.T) {
	got := CleanLines([]string{" 1 cup  flour ", "", "  ", "2 eggs"})
	want := []string{"1 cup flour", "2 eggs"}
	if len(got) != len(want) {
		t.Fatalf("CleanLines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanLines[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanLines_NilInput(t *testing.T) {
	got := CleanLines(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("CleanLines(nil) = %#v, want empty non-nil slice", got)
	}
}
