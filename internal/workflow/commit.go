package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/formatter"
	"github.com/samzong/gitmsg/internal/prompt"
	"github.com/samzong/gitmsg/internal/ui"
	"go.uber.org/zap"
)

const (
	decisionYes  = "yes"
	decisionNo   = "no"
	decisionEdit = "edit"

	// skipPushValue is the select value of the "don't push" option.
	skipPushValue = ""
)

var decisionOptions = []ui.Option{
	{Label: "Yes", Value: decisionYes},
	{Label: "No", Value: decisionNo},
	{Label: "Edit", Value: decisionEdit},
}

type CommitFlow struct {
	git         GitClient
	gen         Generator
	prompter    Prompter
	cfg         *config.Config
	conventions ConventionSource
	log         *zap.Logger
}

func NewCommitFlow(git GitClient, gen Generator, prompter Prompter, cfg *config.Config) *CommitFlow {
	if cfg == nil {
		cfg = config.Default()
	}
	return &CommitFlow{
		git:      git,
		gen:      gen,
		prompter: prompter,
		cfg:      cfg,
		log:      zap.NewNop(),
	}
}

func (f *CommitFlow) SetLogger(log *zap.Logger) {
	if log != nil {
		f.log = log
	}
}

// SetConventionSource enables the @commitlint prompt module.
func (f *CommitFlow) SetConventionSource(src ConventionSource) {
	f.conventions = src
}

// Run drives the flow from change detection until a result is produced.
func (f *CommitFlow) Run(ctx context.Context, opts Options) Result {
	rc := NewRunContext(opts)
	state := StateDetectChanges

	for {
		if err := ctx.Err(); err != nil {
			return f.cancelled(state)
		}

		f.log.Debug("entering state", zap.Stringer("state", state))
		next, result := f.Step(ctx, rc, state)
		if result != nil {
			f.log.Debug("flow finished",
				zap.Stringer("state", state),
				zap.Stringer("status", result.Status),
				zap.Error(result.Err))
			return *result
		}
		state = next
	}
}

// Step performs a single transition. A non-nil Result ends the flow.
func (f *CommitFlow) Step(ctx context.Context, rc *RunContext, state State) (State, *Result) {
	switch state {
	case StateDetectChanges:
		return f.detectChanges(ctx, rc)
	case StateStageSelection:
		return f.selectStage(ctx, rc)
	case StateGenerating:
		return f.generate(ctx, rc)
	case StateAwaitDecision:
		return f.awaitDecision(ctx, rc)
	case StateEditing:
		return f.edit(ctx, rc)
	case StateRegenerating:
		return f.confirmRegenerate(ctx, rc)
	case StateCommitting:
		return f.commit(ctx, rc)
	case StatePushTargetSelection:
		return f.push(ctx, rc)
	case StateDone:
		return StateDone, &Result{Status: StatusSuccess}
	default:
		return state, f.fail("", fmt.Errorf("unknown state %s", state))
	}
}

func (f *CommitFlow) fail(stage string, err error) *Result {
	f.prompter.Notify(ui.LevelError, err.Error())
	return &Result{Status: StatusFailed, Err: err, Stage: stage}
}

func (f *CommitFlow) cancelled(state State) Result {
	f.prompter.Notify(ui.LevelWarn, "Operation cancelled")
	return Result{Status: StatusCancelled, Err: ui.ErrCancelled, Stage: state.String()}
}

// interrupted turns a prompt error into a result, treating aborts as cancellation.
func (f *CommitFlow) interrupted(stage string, state State, err error) *Result {
	if errors.Is(err, ui.ErrCancelled) {
		r := f.cancelled(state)
		r.Stage = stage
		return &r
	}
	return f.fail(stage, err)
}

func (f *CommitFlow) detectChanges(ctx context.Context, rc *RunContext) (State, *Result) {
	if err := f.git.CheckRepository(ctx); err != nil {
		return StateDone, f.fail(StageDetection, err)
	}

	staged, err := f.git.StagedFiles(ctx)
	if err != nil {
		return StateDone, f.fail(StageDetection, fmt.Errorf("failed to list staged files: %w", err))
	}
	changed, err := f.git.ChangedFiles(ctx)
	if err != nil {
		return StateDone, f.fail(StageDetection, fmt.Errorf("failed to list changed files: %w", err))
	}
	rc.Staged, rc.Changed = staged, changed
	rc.Diff = ""

	switch {
	case len(staged) == 0 && len(changed) == 0:
		return StateDone, f.fail(StageDetection, ErrNoChanges)
	case len(staged) == 0 && rc.stagingPasses > 0:
		return StateDone, f.fail(StageStaging, ErrNothingStaged)
	case len(staged) == 0:
		return StateStageSelection, nil
	default:
		return StateGenerating, nil
	}
}

func (f *CommitFlow) selectStage(ctx context.Context, rc *RunContext) (State, *Result) {
	rc.stagingPasses++

	files := rc.Changed
	if !rc.StageAll && !f.cfg.AutoStage {
		selected, err := f.prompter.MultiSelect(ctx, "Select the files you want to add to the commit:", ui.Options(rc.Changed...))
		if err != nil {
			return StateDone, f.interrupted(StageStaging, StateStageSelection, err)
		}
		if len(selected) == 0 {
			return StateDone, f.fail(StageStaging, ErrNoFilesSelected)
		}
		files = selected
	}

	if err := f.git.Stage(ctx, files); err != nil {
		return StateDone, f.fail(StageStaging, fmt.Errorf("failed to stage files: %w", err))
	}
	f.prompter.Notify(ui.LevelSuccess, fmt.Sprintf("Staged %d file(s)", len(files)))
	return StateDetectChanges, nil
}

func (f *CommitFlow) announce(rc *RunContext) {
	if rc.announced {
		return
	}
	rc.announced = true

	f.prompter.Notify(ui.LevelInfo, fmt.Sprintf("%d staged file(s):\n  %s", len(rc.Staged), strings.Join(rc.Staged, "\n  ")))
	excluded, err := f.git.ExcludedFiles(rc.Staged)
	if err != nil {
		f.log.Debug("cannot list excluded files", zap.Error(err))
		return
	}
	if len(excluded) > 0 {
		f.prompter.Notify(ui.LevelWarn, "Excluded from the diff: "+strings.Join(excluded, ", "))
	}
}

func (f *CommitFlow) generate(ctx context.Context, rc *RunContext) (State, *Result) {
	f.announce(rc)

	if rc.Diff == "" {
		diff, err := f.git.Diff(ctx, rc.Staged)
		if err != nil {
			return StateDone, f.fail(StageGeneration, fmt.Errorf("failed to get git diff: %w", err))
		}
		if strings.TrimSpace(diff) == "" {
			return StateDone, f.fail(StageGeneration, ErrEmptyDiff)
		}
		rc.Diff = diff
	}

	seq, err := f.buildPrompt(ctx, rc)
	if err != nil {
		return StateDone, f.fail(StageGeneration, err)
	}

	f.prompter.StartSpinner("Generating the commit message")
	message, err := f.gen.Generate(ctx, seq, rc.Diff)
	if err != nil {
		f.prompter.StopSpinner("")
		return StateDone, f.fail(StageGeneration, fmt.Errorf("failed to generate commit message: %w", err))
	}
	f.prompter.StopSpinner(ui.Format(ui.LevelSuccess, "Commit message generated"))

	message = formatter.FormatCommitMessage(message)
	if message == "" {
		return StateDone, f.fail(StageGeneration, ErrEmptyMessage)
	}
	rc.Candidate, rc.CommitArgs = ApplyTemplate(message, rc.Args, f.cfg.MessageTemplatePlaceholder)
	f.log.Debug("candidate generated", zap.Int("length", len(rc.Candidate)), zap.Strings("commit_args", rc.CommitArgs))
	return StateAwaitDecision, nil
}

func (f *CommitFlow) buildPrompt(ctx context.Context, rc *RunContext) (prompt.Sequence, error) {
	if !f.cfg.IsCommitlint() {
		return prompt.Build(rc.Context, rc.FullGitMoji || f.cfg.FullGitMoji, f.cfg), nil
	}

	if rc.conventions == nil {
		if f.conventions == nil {
			return nil, errors.New("prompt module @commitlint is not available")
		}
		f.prompter.StartSpinner("Loading commitlint conventions")
		llmCfg, err := f.conventions.Resolve(ctx)
		f.prompter.StopSpinner("")
		if err != nil {
			return nil, fmt.Errorf("failed to load commitlint conventions: %w", err)
		}
		rc.conventions = llmCfg
	}
	return prompt.BuildCommitlint(rc.Context, f.cfg, rc.conventions), nil
}

func (f *CommitFlow) awaitDecision(ctx context.Context, rc *RunContext) (State, *Result) {
	f.prompter.Notify(ui.LevelInfo, "Generated commit message:\n"+ui.Frame(rc.Candidate))

	if rc.SkipConfirm {
		return StateCommitting, nil
	}

	choice, err := f.prompter.SelectOne(ctx, "Confirm the commit message?", decisionOptions)
	if err != nil {
		return StateDone, f.interrupted(StageDecision, StateAwaitDecision, err)
	}

	switch choice {
	case decisionEdit:
		return StateEditing, nil
	case decisionNo:
		return StateRegenerating, nil
	default:
		return StateCommitting, nil
	}
}

func (f *CommitFlow) edit(ctx context.Context, rc *RunContext) (State, *Result) {
	edited, err := f.prompter.EditText(ctx, "Please edit the commit message:", rc.Candidate)
	if err != nil {
		return StateDone, f.interrupted(StageEdit, StateEditing, err)
	}
	if strings.TrimSpace(edited) == "" {
		return StateDone, f.fail(StageEdit, ErrEmptyMessage)
	}
	rc.Candidate = edited
	return StateCommitting, nil
}

func (f *CommitFlow) confirmRegenerate(ctx context.Context, rc *RunContext) (State, *Result) {
	again, err := f.prompter.Confirm(ctx, "Do you want to regenerate the message?")
	if err != nil {
		return StateDone, f.interrupted(StageDecision, StateRegenerating, err)
	}
	if !again {
		f.prompter.Notify(ui.LevelWarn, "Commit message rejected, nothing was committed")
		return StateDone, &Result{Status: StatusSkipped, Stage: StageDecision}
	}
	return StateGenerating, nil
}

func (f *CommitFlow) commit(ctx context.Context, rc *RunContext) (State, *Result) {
	f.prompter.StartSpinner("Committing the changes")
	out, err := f.git.Commit(ctx, rc.Candidate, rc.CommitArgs)
	if err != nil {
		f.prompter.StopSpinner("")
		return StateDone, f.fail(StageCommit, fmt.Errorf("failed to commit changes: %w", err))
	}
	f.prompter.StopSpinner(ui.Format(ui.LevelSuccess, "Successfully committed"))
	if out != "" {
		f.prompter.Notify(ui.LevelInfo, out)
	}

	if !f.cfg.GitPush {
		return StateDone, nil
	}
	return StatePushTargetSelection, nil
}

func (f *CommitFlow) push(ctx context.Context, rc *RunContext) (State, *Result) {
	remotes, err := f.git.Remotes(ctx)
	if err != nil {
		return StateDone, f.fail(StagePush, fmt.Errorf("%w: %w", ErrPushFailed, err))
	}
	rc.Remotes = remotes

	switch len(remotes) {
	case 0:
		return f.pushTo(ctx, "", false)
	case 1:
		ok, err := f.prompter.Confirm(ctx, fmt.Sprintf("Do you want to run `git push %s`?", remotes[0]))
		if err != nil {
			return StateDone, f.interrupted(StagePush, StatePushTargetSelection, err)
		}
		if !ok {
			f.prompter.Notify(ui.LevelWarn, "`git push` skipped")
			return StateDone, nil
		}
		return f.pushTo(ctx, remotes[0], true)
	default:
		options := append(ui.Options(remotes...), ui.Option{Label: "Don't push", Value: skipPushValue})
		remote, err := f.prompter.SelectOne(ctx, "Choose a remote to push to", options)
		if err != nil {
			return StateDone, f.interrupted(StagePush, StatePushTargetSelection, err)
		}
		if remote == skipPushValue {
			f.prompter.Notify(ui.LevelWarn, "`git push` skipped")
			return StateDone, nil
		}
		return f.pushTo(ctx, remote, true)
	}
}

func (f *CommitFlow) pushTo(ctx context.Context, remote string, verbose bool) (State, *Result) {
	label := "Running `git push`"
	if remote != "" {
		label = fmt.Sprintf("Running `git push %s`", remote)
	}

	f.prompter.StartSpinner(label)
	out, err := f.git.Push(ctx, remote, verbose)
	if err != nil {
		f.prompter.StopSpinner("")
		return StateDone, f.fail(StagePush, fmt.Errorf("%w: %w", ErrPushFailed, err))
	}
	f.prompter.StopSpinner(ui.Format(ui.LevelSuccess, "Successfully pushed all commits"))
	if out != "" {
		f.prompter.Notify(ui.LevelInfo, out)
	}
	return StateDone, nil
}
