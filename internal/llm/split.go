package llm

import (
	"strings"
	"unicode/utf8"
)

const truncatedMarker = "\n...(content is too long, truncated)\n"

// SplitDiff groups file sections of diff into chunks of at most limit bytes.
// A single section larger than limit is truncated without splitting a rune
// and ends with a line break so the next file header starts a line.
// A non-positive limit disables splitting.
func SplitDiff(diff string, limit int) []string {
	if limit <= 0 || len(diff) <= limit {
		return []string{diff}
	}

	var chunks []string
	var current strings.Builder
	for _, section := range splitSections(diff) {
		if len(section) > limit {
			section = truncateToValidUTF8(section, limit-len(truncatedMarker)) + truncatedMarker
		}
		if current.Len() > 0 && current.Len()+len(section) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(section)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitSections(diff string) []string {
	lines := strings.SplitAfter(diff, "\n")
	var sections []string
	var current strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// truncateToValidUTF8 cuts input to at most maxBytes without splitting a rune
// at the cut. Invalid bytes before the cut are kept.
func truncateToValidUTF8(input string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(input) <= maxBytes {
		return input
	}

	end := maxBytes
	for back := 0; end > 0 && back < utf8.UTFMax-1 && !utf8.RuneStart(input[end]); back++ {
		end--
	}
	if !utf8.RuneStart(input[end]) {
		// Run of stray continuation bytes, not a partial rune.
		end = maxBytes
	}
	return input[:end]
}
