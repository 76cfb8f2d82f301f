package workflow

import (
	"errors"
	"fmt"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/git"
)

// State is a step of the commit flow.
type State int

const (
	StateDetectChanges State = iota
	StateStageSelection
	StateGenerating
	StateAwaitDecision
	StateEditing
	StateRegenerating
	StateCommitting
	StatePushTargetSelection
	StateDone
)

var stateNames = [...]string{
	StateDetectChanges:       "detect-changes",
	StateStageSelection:      "stage-selection",
	StateGenerating:          "generating",
	StateAwaitDecision:       "await-decision",
	StateEditing:             "editing",
	StateRegenerating:        "regenerating",
	StateCommitting:          "committing",
	StatePushTargetSelection: "push-target-selection",
	StateDone:                "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Stages name where a flow stopped.
const (
	StageDetection  = "detection"
	StageStaging    = "staging"
	StageGeneration = "generation"
	StageDecision   = "decision"
	StageEdit       = "edit"
	StageCommit     = "commit"
	StagePush       = "push"
)

var (
	ErrNoChanges        = errors.New("no changes detected")
	ErrNotGitRepository = git.ErrNotGitRepository
	ErrNothingStaged    = errors.New("no files were staged")
	ErrNoFilesSelected  = errors.New("no files selected for staging")
	ErrEmptyDiff        = errors.New("staged changes contain only files excluded from the diff")
	ErrEmptyMessage     = errors.New("commit message is empty")
	ErrPushFailed       = errors.New("changes committed, push failed")
)

// Result is the outcome of a flow. Only the CLI turns it into an exit code.
type Result struct {
	Status Status
	Err    error
	Stage  string
}

func (r Result) ExitCode() int {
	switch r.Status {
	case StatusSuccess, StatusSkipped:
		return 0
	default:
		return 1
	}
}

// Options are the per-invocation inputs of the flow.
type Options struct {
	// Args are passed through to git commit.
	Args        []string
	Context     string
	StageAll    bool
	FullGitMoji bool
	SkipConfirm bool
}

// RunContext is the state carried between steps.
type RunContext struct {
	Options

	Changed    []string
	Staged     []string
	Diff       string
	Candidate  string
	CommitArgs []string
	Remotes    []string

	stagingPasses int
	announced     bool
	conventions   *commitlint.LLMConfig
}

func NewRunContext(opts Options) *RunContext {
	return &RunContext{Options: opts}
}
