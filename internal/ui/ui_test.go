package ui

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	assert.Equal(t, []Option{{Label: "origin", Value: "origin"}, {Label: "upstream", Value: "upstream"}},
		Options("origin", "upstream"))
	assert.Empty(t, Options())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "plain", Format(LevelInfo, "plain"))
	assert.Contains(t, Format(LevelSuccess, "done"), "✔")
	assert.Contains(t, Format(LevelError, "failed"), "✖")
	assert.Contains(t, Format(LevelWarn, "careful"), "careful")
}

func TestFrame(t *testing.T) {
	framed := Frame("feat: x")
	assert.Contains(t, framed, "\nfeat: x\n")
	assert.Contains(t, framed, separator)
}

func TestTerminal_NotifyAndSpinner(t *testing.T) {
	var buf bytes.Buffer
	term := &Terminal{Out: &buf}

	term.StartSpinner("Generating")
	term.StopSpinner("done")
	term.StopSpinner("")
	term.Notify(LevelInfo, "hello")

	assert.Equal(t, "done\nhello\n", buf.String())
}

func TestTerminal_NonInteractiveStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	term := &Terminal{In: r, Out: &bytes.Buffer{}}

	_, err = term.Confirm(context.Background(), "Push?")
	assert.ErrorIs(t, err, ErrNotInteractive)

	_, err = term.SelectOne(context.Background(), "Pick", Options("a"))
	assert.ErrorIs(t, err, ErrNotInteractive)

	value, err := term.Input(context.Background(), Input{Title: "Model", Value: "  gpt-4o  "})
	assert.ErrorIs(t, err, ErrNotInteractive)
	assert.Equal(t, "gpt-4o", value)
}

func TestSpinnerDisabledForNonTTY(t *testing.T) {
	sp := NewSpinner(&bytes.Buffer{}, "x")
	assert.False(t, sp.enabled)
	sp.Start()
	sp.Stop()
}
