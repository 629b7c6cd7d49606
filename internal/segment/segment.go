package segment

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxLineLength is the longest line emitted verbatim as a single chunk.
	MaxLineLength = 200

	// FlushLength is the buffer length after which a long line is cut at the
	// next sentence terminator.
	FlushLength = 150
)

// Split normalises text into lines and returns the chunks in input order.
// Lines up to MaxLineLength runes are kept whole. Longer lines are cut after
// a sentence terminator once the accumulated buffer exceeds FlushLength. A
// sentence that is longer than MaxLineLength on its own is never cut.
func Split(text string) []string {
	var chunks []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= MaxLineLength {
			chunks = append(chunks, line)
			continue
		}
		chunks = append(chunks, splitLongLine(line)...)
	}
	return chunks
}

func splitLongLine(line string) []string {
	var (
		chunks  []string
		current strings.Builder
		length  int
	)

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		length = 0
	}

	for _, part := range sentenceParts(line) {
		current.WriteString(part)
		length += utf8.RuneCountInString(part)
		if isTerminatorRun(part) && length > FlushLength {
			flush()
		}
	}
	flush()

	return chunks
}

// sentenceParts splits line into alternating text and terminator runs,
// dropping parts that are only whitespace.
func sentenceParts(line string) []string {
	var parts []string
	start := 0
	inRun := false

	emit := func(end int) {
		if part := line[start:end]; strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
		start = end
	}

	for i, r := range line {
		if IsTerminator(r) != inRun {
			emit(i)
			inRun = !inRun
		}
	}
	emit(len(line))

	return parts
}

// IsTerminator reports whether r ends a sentence in East-Asian text.
func IsTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '；':
		return true
	}
	return false
}

func isTerminatorRun(part string) bool {
	r, _ := utf8.DecodeRuneInString(part)
	return IsTerminator(r)
}

// Windows groups consecutive chunks so that the newline-joined length of a
// window stays within limit runes. A chunk longer than limit forms its own
// window. A limit of zero or less puts every chunk into one window.
func Windows(chunks []string, limit int) [][]string {
	if len(chunks) == 0 {
		return nil
	}
	if limit <= 0 {
		return [][]string{chunks}
	}

	var (
		windows [][]string
		current []string
		length  int
	)
	for _, chunk := range chunks {
		n := utf8.RuneCountInString(chunk)
		if len(current) > 0 && length+1+n > limit {
			windows = append(windows, current)
			current, length = nil, 0
		}
		if len(current) > 0 {
			length++
		}
		current = append(current, chunk)
		length += n
	}
	if len(current) > 0 {
		windows = append(windows, current)
	}
	return windows
}
