package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCommitMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "feat(api): add endpoint", want: "feat(api): add endpoint"},
		{name: "surrounding whitespace", input: "\n  fix: handle nil  \n", want: "fix: handle nil"},
		{name: "upper case type", input: "FEAT(api): add endpoint", want: "feat(api): add endpoint"},
		{name: "missing space", input: "Fix:handle nil", want: "fix: handle nil"},
		{name: "breaking change", input: "Feat(api)!: drop v1", want: "feat(api)!: drop v1"},
		{name: "space before colon", input: "Feat(api) : add endpoint", want: "feat(api): add endpoint"},
		{name: "space before colon without scope", input: "Docs :readme", want: "docs: readme"},
		{name: "code fence", input: "```\nfeat: add x\n```", want: "feat: add x"},
		{name: "code fence with language", input: "```text\nfeat: add x\n\nBecause y.\n```", want: "feat: add x\n\nBecause y."},
		{name: "double quotes", input: `"fix: quote"`, want: "fix: quote"},
		{name: "backticks", input: "`fix: tick`", want: "fix: tick"},
		{name: "multi line", input: "Fix(a): one\nFEAT(b): two\n\nwhy it changed", want: "fix(a): one\nfeat(b): two\n\nwhy it changed"},
		{name: "emoji prefix untouched", input: "🐛(server): fix port", want: "🐛(server): fix port"},
		{name: "type word in body untouched", input: "update docs: readme", want: "update docs: readme"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatCommitMessage(tc.input))
		})
	}
}
