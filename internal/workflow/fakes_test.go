package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/prompt"
	"github.com/samzong/gitmsg/internal/ui"
)

type commitCall struct {
	message string
	args    []string
}

type pushCall struct {
	remote  string
	verbose bool
}

type fakeGit struct {
	repoErr    error
	staged     []string
	changed    []string
	stagedErr  error
	changedErr error
	diff       string
	diffErr    error
	excluded   []string
	stageErr   error
	stageNoop  bool
	commitOut  string
	commitErr  error
	remotes    []string
	remotesErr error
	pushErr    error

	diffCalls   int
	stageCalls  [][]string
	commits     []commitCall
	remoteCalls int
	pushes      []pushCall
}

func (g *fakeGit) CheckRepository(context.Context) error { return g.repoErr }

func (g *fakeGit) ChangedFiles(context.Context) ([]string, error) {
	return slices.Clone(g.changed), g.changedErr
}

func (g *fakeGit) StagedFiles(context.Context) ([]string, error) {
	return slices.Clone(g.staged), g.stagedErr
}

func (g *fakeGit) Diff(_ context.Context, files []string) (string, error) {
	g.diffCalls++
	return g.diff, g.diffErr
}

func (g *fakeGit) ExcludedFiles(files []string) ([]string, error) {
	var out []string
	for _, f := range files {
		if slices.Contains(g.excluded, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (g *fakeGit) Stage(_ context.Context, files []string) error {
	g.stageCalls = append(g.stageCalls, slices.Clone(files))
	if g.stageErr != nil || g.stageNoop {
		return g.stageErr
	}
	for _, f := range files {
		g.staged = append(g.staged, f)
		g.changed = slices.DeleteFunc(g.changed, func(c string) bool { return c == f })
	}
	return nil
}

func (g *fakeGit) Commit(_ context.Context, message string, args []string) (string, error) {
	if g.commitErr != nil {
		return "", g.commitErr
	}
	g.commits = append(g.commits, commitCall{message: message, args: slices.Clone(args)})
	return g.commitOut, nil
}

func (g *fakeGit) Remotes(context.Context) ([]string, error) {
	g.remoteCalls++
	return g.remotes, g.remotesErr
}

func (g *fakeGit) Push(_ context.Context, remote string, verbose bool) (string, error) {
	if g.pushErr != nil {
		return "", g.pushErr
	}
	g.pushes = append(g.pushes, pushCall{remote: remote, verbose: verbose})
	return "", nil
}

type fakeGenerator struct {
	replies []string
	err     error
	seqs    []prompt.Sequence
	diffs   []string
}

func (g *fakeGenerator) Generate(_ context.Context, seq prompt.Sequence, diff string) (string, error) {
	g.seqs = append(g.seqs, seq)
	g.diffs = append(g.diffs, diff)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return reply, nil
}

type answer struct {
	value string
	err   error
}

type confirmAnswer struct {
	ok  bool
	err error
}

type notice struct {
	level ui.Level
	text  string
}

// fakePrompter replays scripted answers in order.
type fakePrompter struct {
	selects   []answer
	confirms  []confirmAnswer
	multi     []string
	multiErr  error
	edit      *answer
	multiOpts []ui.Option

	selectTitles  []string
	selectOptions [][]ui.Option
	confirmTitles []string
	editInitial   []string
	notices       []notice
	spinning      bool
}

func (p *fakePrompter) SelectOne(_ context.Context, title string, options []ui.Option) (string, error) {
	p.selectTitles = append(p.selectTitles, title)
	p.selectOptions = append(p.selectOptions, options)
	if len(p.selects) == 0 {
		return "", fmt.Errorf("unexpected select %q", title)
	}
	a := p.selects[0]
	p.selects = p.selects[1:]
	return a.value, a.err
}

func (p *fakePrompter) MultiSelect(_ context.Context, _ string, options []ui.Option) ([]string, error) {
	p.multiOpts = options
	return p.multi, p.multiErr
}

func (p *fakePrompter) Confirm(_ context.Context, title string) (bool, error) {
	p.confirmTitles = append(p.confirmTitles, title)
	if len(p.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", title)
	}
	a := p.confirms[0]
	p.confirms = p.confirms[1:]
	return a.ok, a.err
}

func (p *fakePrompter) EditText(_ context.Context, _ string, initial string) (string, error) {
	p.editInitial = append(p.editInitial, initial)
	if p.edit == nil {
		return initial, nil
	}
	return p.edit.value, p.edit.err
}

func (p *fakePrompter) Notify(level ui.Level, text string) {
	p.notices = append(p.notices, notice{level: level, text: text})
}

func (p *fakePrompter) StartSpinner(string) { p.spinning = true }

func (p *fakePrompter) StopSpinner(string) { p.spinning = false }

func (p *fakePrompter) errors() []string {
	var out []string
	for _, n := range p.notices {
		if n.level == ui.LevelError {
			out = append(out, n.text)
		}
	}
	return out
}

type fakeConventions struct {
	cfg   *commitlint.LLMConfig
	err   error
	calls int
}

func (c *fakeConventions) Resolve(context.Context) (*commitlint.LLMConfig, error) {
	c.calls++
	return c.cfg, c.err
}

type fakeCompleter struct {
	reply string
	calls int
	seqs  []prompt.Sequence
}

func (c *fakeCompleter) Complete(_ context.Context, seq prompt.Sequence) (string, error) {
	c.calls++
	c.seqs = append(c.seqs, seq)
	return c.reply, nil
}
