// Package formatter normalizes raw model answers into commit messages.
package formatter

import (
	"regexp"
	"strings"
)

var (
	fencePattern      = regexp.MustCompile("(?s)^```[a-zA-Z-]*[ \t]*\n(.*?)\n?```$")
	typePrefixPattern = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\([^)]*\))?(!)?[ \t]*:\s*`)
)

// FormatCommitMessage strips a wrapping code fence or quotes and lower-cases
// the conventional type of every subject line. Body text is kept as is.
func FormatCommitMessage(message string) string {
	message = strings.TrimSpace(message)
	if m := fencePattern.FindStringSubmatch(message); m != nil {
		message = strings.TrimSpace(m[1])
	}
	message = trimQuotes(message)

	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = normalizeTypePrefix(strings.TrimRight(line, " \t\r"))
	}
	return strings.Join(lines, "\n")
}

func trimQuotes(message string) string {
	if len(message) < 2 {
		return message
	}
	first, last := message[0], message[len(message)-1]
	if first == last && (first == '"' || first == '`' || first == '\'') {
		return strings.TrimSpace(message[1 : len(message)-1])
	}
	return message
}

// normalizeTypePrefix rewrites "Feat(api) : x" style prefixes to "feat(api): x".
func normalizeTypePrefix(line string) string {
	m := typePrefixPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return line
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(line[m[2]:m[3]]))
	if m[4] >= 0 {
		b.WriteString(line[m[4]:m[5]])
	}
	if m[6] >= 0 {
		b.WriteByte('!')
	}
	b.WriteString(": ")
	b.WriteString(line[m[1]:])
	return b.String()
}
