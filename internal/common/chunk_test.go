package common

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		limit int
		want  []string
	}{
		{name: "empty", lines: nil, limit: 10, want: nil},
		{name: "fits", lines: []string{"a", "b"}, limit: 10, want: []string{"a\nb"}},
		{name: "no limit", lines: []string{"aaaa", "bbbb"}, limit: 0, want: []string{"aaaa\nbbbb"}},
		{name: "exact fit", lines: []string{"aaaa", "bbbb"}, limit: 10, want: []string{"aaaa\nbbbb"}},
		{name: "split", lines: []string{"aaaa", "bbbb", "cccc"}, limit: 10, want: []string{"aaaa\nbbbb", "cccc"}},
		{name: "oversized line", lines: []string{"a", strings.Repeat("x", 20), "b"}, limit: 10, want: []string{"a", strings.Repeat("x", 20), "b"}},
		{name: "counts runes", lines: []string{"نقرات", "نقرات"}, limit: 12, want: []string{"نقرات\nنقرات"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkLines(tt.lines, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkLines() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkLines_RespectsLimit(t *testing.T) {
	var lines []string
	for i := 0; i < 500; i++ {
		lines = append(lines, strings.Repeat("site.example | ", 3))
	}

	chunks := ChunkLines(lines, MessageLimit)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	total := 0
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > MessageLimit {
			t.Errorf("chunk %d has %d characters, limit %d", i, n, MessageLimit)
		}
		total += strings.Count(c, "\n") + 1
	}
	if total != len(lines) {
		t.Errorf("chunks hold %d lines, want %d", total, len(lines))
	}
}
