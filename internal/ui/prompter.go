// Package ui implements the interactive surface of the commit flow on top of
// charmbracelet/huh forms, lipgloss styles and a TTY-aware spinner.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// ErrCancelled is returned by every prompt the user aborts.
	ErrCancelled      = errors.New("operation cancelled by user")
	ErrNotInteractive = errors.New("stdin is not a terminal")
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const separator = "──────────────────"

// Option is a selectable choice with a display label.
type Option struct {
	Label string
	Value string
}

// Options builds options whose label equals their value.
func Options(values ...string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Label: v, Value: v})
	}
	return opts
}

// Format renders a notice the way Terminal prints it.
func Format(level Level, text string) string {
	switch level {
	case LevelSuccess:
		return successStyle.Render("✔") + " " + text
	case LevelWarn:
		return warnStyle.Render("!") + " " + text
	case LevelError:
		return errorStyle.Render("✖") + " " + text
	default:
		return text
	}
}

// Frame surrounds text with muted separator lines.
func Frame(text string) string {
	line := mutedStyle.Render(separator)
	return line + "\n" + text + "\n" + line
}

// Terminal is the interactive prompter used by the CLI.
type Terminal struct {
	In      *os.File
	Out     io.Writer
	spinner *Spinner
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{In: os.Stdin, Out: out}
}

func (t *Terminal) run(ctx context.Context, field huh.Field) error {
	if t.In != nil && !isatty.IsTerminal(t.In.Fd()) && !isatty.IsCygwinTerminal(t.In.Fd()) {
		return ErrNotInteractive
	}

	err := huh.NewForm(huh.NewGroup(field)).
		WithOutput(t.Out).
		WithShowHelp(false).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return ErrCancelled
	}
	return err
}

func (t *Terminal) SelectOne(ctx context.Context, title string, options []Option) (string, error) {
	choices := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		choices = append(choices, huh.NewOption(o.Label, o.Value))
	}

	var selected string
	err := t.run(ctx, huh.NewSelect[string]().Title(title).Options(choices...).Value(&selected))
	return selected, err
}

func (t *Terminal) MultiSelect(ctx context.Context, title string, options []Option) ([]string, error) {
	choices := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		choices = append(choices, huh.NewOption(o.Label, o.Value))
	}

	var selected []string
	err := t.run(ctx, huh.NewMultiSelect[string]().Title(title).Options(choices...).Value(&selected))
	return selected, err
}

func (t *Terminal) Confirm(ctx context.Context, title string) (bool, error) {
	confirmed := true
	err := t.run(ctx, huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&confirmed))
	return confirmed, err
}

// Input describes a single-line text field. Validate blocks submission until
// it returns nil.
type Input struct {
	Title       string
	Placeholder string
	Value       string
	Secret      bool
	Validate    func(string) error
}

// Input asks for one line of text and returns it trimmed.
func (t *Terminal) Input(ctx context.Context, in Input) (string, error) {
	value := in.Value
	field := huh.NewInput().Title(in.Title).Placeholder(in.Placeholder).Value(&value)
	if in.Secret {
		field = field.EchoMode(huh.EchoModePassword)
	}
	if in.Validate != nil {
		field = field.Validate(in.Validate)
	}
	err := t.run(ctx, field)
	return strings.TrimSpace(value), err
}

// EditText opens a multi-line editor pre-filled with initial.
func (t *Terminal) EditText(ctx context.Context, title, initial string) (string, error) {
	text := initial
	err := t.run(ctx, huh.NewText().Title(title).CharLimit(0).Lines(8).Value(&text))
	return strings.TrimSpace(text), err
}

func (t *Terminal) Notify(level Level, text string) {
	fmt.Fprintln(t.Out, Format(level, text))
}

func (t *Terminal) StartSpinner(label string) {
	t.StopSpinner("")
	t.spinner = NewSpinner(t.Out, label)
	t.spinner.Start()
}

// StopSpinner halts the running spinner and prints label when non-empty.
func (t *Terminal) StopSpinner(label string) {
	if t.spinner != nil {
		t.spinner.Stop()
		t.spinner = nil
	}
	if label != "" {
		fmt.Fprintln(t.Out, label)
	}
}
