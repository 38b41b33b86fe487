package common

import (
	"strings"
	"unicode/utf8"
)

// MessageLimit is the largest reply, in characters, chat front-ends accept comfortably.
const MessageLimit = 3900

// ChunkLines groups lines into newline-joined messages of at most limit characters
// each, counting one separator per line. Lines are never split, so a single line
// longer than limit becomes a chunk of its own. A non-positive limit means no limit.
func ChunkLines(lines []string, limit int) []string {
	if len(lines) == 0 {
		return nil
	}
	if limit <= 0 {
		return []string{strings.Join(lines, "\n")}
	}

	var chunks []string
	var current []string
	size := 0
	for _, line := range lines {
		n := utf8.RuneCountInString(line) + 1
		if len(current) > 0 && size+n > limit {
			chunks = append(chunks, strings.Join(current, "\n"))
			current, size = nil, 0
		}
		current = append(current, line)
		size += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}
