// Package workflow provides the commit workflow orchestration logic.
package workflow

import (
	"context"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/prompt"
	"github.com/samzong/gitmsg/internal/ui"
)

// GitClient abstracts git operations for testability.
type GitClient interface {
	CheckRepository(ctx context.Context) error
	ChangedFiles(ctx context.Context) ([]string, error)
	StagedFiles(ctx context.Context) ([]string, error)
	Diff(ctx context.Context, files []string) (string, error)
	ExcludedFiles(files []string) ([]string, error)
	Stage(ctx context.Context, files []string) error
	Commit(ctx context.Context, message string, args []string) (string, error)
	Remotes(ctx context.Context) ([]string, error)
	Push(ctx context.Context, remote string, verbose bool) (string, error)
}

// Generator abstracts the message generation backend.
type Generator interface {
	Generate(ctx context.Context, seq prompt.Sequence, diff string) (string, error)
}

// Completer sends a prompt sequence without a trailing diff.
type Completer interface {
	Complete(ctx context.Context, seq prompt.Sequence) (string, error)
}

// Prompter is the interactive surface. Aborted prompts return ui.ErrCancelled.
type Prompter interface {
	SelectOne(ctx context.Context, title string, options []ui.Option) (string, error)
	MultiSelect(ctx context.Context, title string, options []ui.Option) ([]string, error)
	Confirm(ctx context.Context, title string) (bool, error)
	EditText(ctx context.Context, title, initial string) (string, error)
	Notify(level ui.Level, text string)
	StartSpinner(label string)
	StopSpinner(label string)
}

// ConventionSource supplies the project consistency file for the
// @commitlint prompt module.
type ConventionSource interface {
	Resolve(ctx context.Context) (*commitlint.LLMConfig, error)
}
