package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"pgregory.net/rapid"
)

func TestTruncateWidth(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		max    int
		suffix string
		want   string
	}{
		{"fits", "git status", 20, "…", "git status"},
		{"exact", "abc", 3, "…", "abc"},
		{"truncated", "git status --short", 10, "…", "git statu…"},
		{"zero width", "anything", 0, "…", ""},
		{"suffix wider than max", "abc", 1, "...", "."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateWidth(tc.in, tc.max, tc.suffix); got != tc.want {
				t.Errorf("truncateWidth(%q, %d, %q) = %q, want %q", tc.in, tc.max, tc.suffix, got, tc.want)
			}
		})
	}
}

func TestTruncateWidthWideRunes(t *testing.T) {
	// CJK runes occupy two cells; truncation must count cells, not runes.
	got := truncateWidth("日本語のコマンド", 7, "…")
	if w := runewidth.StringWidth(got); w > 7 {
		t.Fatalf("truncated to %d cells, want at most 7: %q", w, got)
	}
}

func TestTruncateWidthNeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		max := rapid.IntRange(1, 60).Draw(t, "max")
		got := truncateWidth(s, max, "…")
		if w := runewidth.StringWidth(got); w > max {
			t.Fatalf("width %d exceeds max %d for %q", w, max, s)
		}
	})
}

func TestPadLeft(t *testing.T) {
	if got := padLeft("5", 3); got != "  5" {
		t.Errorf("padLeft = %q", got)
	}
	if got := padLeft("12345", 3); got != "12345" {
		t.Errorf("overlong input must pass through, got %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("for f in *;\n  echo $f\ndone"); got != "for f in *; …" {
		t.Errorf("firstLine = %q", got)
	}
}
