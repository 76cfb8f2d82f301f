package gitcmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultLines(t *testing.T) {
	r := Result{Stdout: []byte("origin\n\n  upstream \n")}
	assert.Equal(t, []string{"origin", "upstream"}, r.Lines())
	assert.Nil(t, Result{}.Lines())
	assert.Equal(t, "origin\n\n  upstream", r.StdoutString(true))
}

func TestRunnerLog(t *testing.T) {
	var buf bytes.Buffer

	Runner{Verbose: false, Logger: &buf}.log([]string{"status"})
	assert.Empty(t, buf.String())

	Runner{Verbose: true, Logger: &buf}.log([]string{"push", "--verbose", "origin"})
	assert.Equal(t, "Running: git push --verbose origin\n", buf.String())
}

func TestRunnerCommand(t *testing.T) {
	r := Runner{Dir: "/tmp/repo", Env: []string{"GIT_TERMINAL_PROMPT=0"}}
	cmd := r.command(context.Background(), "status", "--short")

	assert.Equal(t, "/tmp/repo", cmd.Dir)
	assert.Equal(t, []string{"git", "status", "--short"}, cmd.Args)
	assert.Contains(t, cmd.Env, "GIT_TERMINAL_PROMPT=0")
}
