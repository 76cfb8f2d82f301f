package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDiff_UnderLimit(t *testing.T) {
	diff := "diff --git a/a b/a\n+x\n"
	assert.Equal(t, []string{diff}, SplitDiff(diff, 1000))
	assert.Equal(t, []string{diff}, SplitDiff(diff, 0))
}

func TestSplitDiff_GroupsSections(t *testing.T) {
	a := "diff --git a/a b/a\n+1\n"
	b := "diff --git a/b b/b\n+2\n"
	c := "diff --git a/c b/c\n" + strings.Repeat("+3\n", 5)

	chunks := SplitDiff(a+b+c, len(a)+len(b)+1)
	require.Len(t, chunks, 2)
	assert.Equal(t, a+b, chunks[0])
	assert.Equal(t, c, chunks[1])
	assert.Equal(t, a+b+c, strings.Join(chunks, ""))
}

func TestSplitDiff_TruncatesOversizedSection(t *testing.T) {
	big := "diff --git a/big b/big\n" + strings.Repeat("+日本語\n", 200)
	small := "diff --git a/s b/s\n+s\n"

	chunks := SplitDiff(big+small, 300)
	require.Len(t, chunks, 2)
	assert.LessOrEqual(t, len(chunks[0]), 300)
	assert.True(t, strings.HasSuffix(chunks[0], truncatedMarker))
	assert.True(t, utf8.ValidString(chunks[0]))
	assert.Equal(t, small, chunks[1])
}

func TestTruncateToValidUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateToValidUTF8("abc", 10))
	assert.Equal(t, "ab", truncateToValidUTF8("abc", 2))
	assert.Equal(t, "", truncateToValidUTF8("abc", 0))
	assert.Equal(t, "日", truncateToValidUTF8("日本", 4))
}

func TestSplitDiff_KeepsInvalidUTF8Section(t *testing.T) {
	latin1 := "diff --git a/latin1.txt b/latin1.txt\n+caf\xe9\n" + strings.Repeat("+some line of text\n", 200)
	next := "diff --git a/next.txt b/next.txt\n+next\n"

	chunks := SplitDiff(latin1+next, 500)
	require.Len(t, chunks, 2)
	assert.Greater(t, len(chunks[0]), 400)
	assert.LessOrEqual(t, len(chunks[0]), 500)
	assert.Contains(t, chunks[0], "+caf\xe9\n+some line of text\n")
	assert.True(t, strings.HasSuffix(chunks[0], truncatedMarker))
	assert.Equal(t, next, chunks[1])
}

func TestSplitDiff_HeadersStartLines(t *testing.T) {
	var diff strings.Builder
	for _, name := range []string{"a", "b", "c", "d"} {
		diff.WriteString("diff --git a/" + name + " b/" + name + "\n")
		diff.WriteString(strings.Repeat("+"+name+" changed line\n", 40))
		diff.WriteString("diff --git a/" + name + "-small b/" + name + "-small\n+x\n")
	}

	chunks := SplitDiff(diff.String(), 300)
	require.NotEmpty(t, chunks)

	headers := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 300)
		assert.True(t, strings.HasPrefix(chunk, "diff --git "), chunk)
		for i := strings.Index(chunk, "diff --git "); i >= 0; {
			headers++
			assert.True(t, i == 0 || chunk[i-1] == '\n', "header not at line start in %q", chunk)
			next := strings.Index(chunk[i+1:], "diff --git ")
			if next < 0 {
				break
			}
			i += next + 1
		}
	}
	assert.Equal(t, 8, headers)
}

func TestTruncateToValidUTF8_InvalidBytes(t *testing.T) {
	assert.Equal(t, "caf\xe9 o", truncateToValidUTF8("caf\xe9 ole", 6))
	assert.Equal(t, "\x80\x80\x80\x80\x80", truncateToValidUTF8("\x80\x80\x80\x80\x80\x80", 5))
	assert.Equal(t, "a", truncateToValidUTF8("a日", 2))
}
