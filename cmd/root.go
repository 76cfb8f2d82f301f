package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/git"
	"github.com/samzong/gitmsg/internal/llm"
	"github.com/samzong/gitmsg/internal/logging"
	"github.com/samzong/gitmsg/internal/ui"
	"github.com/samzong/gitmsg/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	addAll      bool
	fullGitMoji bool
	autoYes     bool
	verbose     bool
	userContext string
	configErr   error
	rootCmd     = &cobra.Command{
		Use:   "gitmsg [flags] [-- git commit args]",
		Short: "gitmsg - AI commit message generator",
		Long: `gitmsg generates a commit message for your staged changes with an LLM, ` +
			`lets you accept, edit or regenerate it, commits and offers to push.

Arguments after -- are passed to git commit. An argument containing the
message template placeholder ($msg by default) becomes the commit message
with the placeholder replaced by the generated text.`,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return runCommit(cmd.Context(), args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	newGenerator = func(cfg *config.Config, log *zap.Logger) (*llm.Client, error) {
		return llm.NewClient(llm.Options{
			APIKey:       cfg.APIKey,
			APIBase:      cfg.APIBase,
			Model:        cfg.Model,
			Timeout:      time.Duration(cfg.Timeout) * time.Second,
			MaxDiffBytes: cfg.MaxDiffBytes,
			Logger:       log,
		})
	}

	outWriterFunc = func() io.Writer { return os.Stdout }
	errWriterFunc = func() io.Writer { return os.Stderr }
)

// ExitError reports a flow that ended with a non-zero exit code. The failure
// has already been shown to the user.
type ExitError struct {
	Code   int
	Result workflow.Result
}

func (e *ExitError) Error() string {
	if e.Result.Err != nil {
		return fmt.Sprintf("%s: %v", e.Result.Status, e.Result.Err)
	}
	return e.Result.Status.String()
}

func (e *ExitError) Unwrap() error {
	return e.Result.Err
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// RootCmd exposes the command tree for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $HOME/.config/gitmsg/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Show git commands and diagnostic logs")
	rootCmd.Flags().StringVarP(&userContext, "context", "c", "", "Additional context for the commit message")
	rootCmd.Flags().BoolVarP(&addAll, "all", "a", false,
		"Stage all changed files without asking when nothing is staged")
	rootCmd.Flags().BoolVar(&fullGitMoji, "fgm", false, "Use the full GitMoji specification")
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "Skip the commit message confirmation")

	rootCmd.AddCommand(configCmd)

	outWriterFunc = func() io.Writer { return rootCmd.OutOrStdout() }
	errWriterFunc = func() io.Writer { return rootCmd.ErrOrStderr() }
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

func outWriter() io.Writer {
	return outWriterFunc()
}

func errWriter() io.Writer {
	return errWriterFunc()
}

func newLogger() *zap.Logger {
	return logging.New(errWriter(), verbose, os.Getenv(config.EnvPrefix+"_LOG_LEVEL"))
}

func runCommit(ctx context.Context, args []string) error {
	ctx = contextOrBackground(ctx)

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	proceed, err := ensureLLMConfigured(ctx, cfg, newInitPrompter(), runInitWizard)
	if err != nil {
		return promptFailure(errWriter(), err)
	}
	if !proceed {
		return nil
	}
	if cfg, err = config.GetConfig(); err != nil {
		return err
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	root, err := git.FindRoot(ctx, ".")
	if err != nil {
		// CheckRepository reports this inside the flow.
		root = "."
	}

	generator, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	gitClient := git.NewClient(git.Options{
		Verbose:    verbose,
		Dir:        root,
		Logger:     log,
		LogWriter:  errWriter(),
		IgnoreFile: cfg.IgnoreFile,
	})

	flow := workflow.NewCommitFlow(gitClient, generator, ui.NewTerminal(errWriter()), cfg)
	flow.SetLogger(log)
	if cfg.IsCommitlint() {
		store := commitlint.NewStore(root, cfg.CommitlintConfig)
		flow.SetConventionSource(workflow.NewCommitlintSource(store, cfg, generator, log))
	}

	result := flow.Run(ctx, workflow.Options{
		Args:        args,
		Context:     userContext,
		StageAll:    addAll,
		FullGitMoji: fullGitMoji,
		SkipConfirm: autoYes,
	})
	return handleResult(errWriter(), result)
}

// handleResult turns a flow result into the command error, with a hint for
// failures a flag can fix.
func handleResult(w io.Writer, result workflow.Result) error {
	if errors.Is(result.Err, workflow.ErrNoFilesSelected) {
		fmt.Fprintln(w, "Hint: use -a to stage every changed file")
	}
	if errors.Is(result.Err, workflow.ErrEmptyDiff) {
		fmt.Fprintln(w, "Hint: lockfiles, images and ignore-file matches are left out of the diff, commit them with git commit")
	}
	if errors.Is(result.Err, ui.ErrNotInteractive) {
		fmt.Fprintln(w, "Hint: use -y to skip the confirmation and -a to stage all files")
	}

	code := result.ExitCode()
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code, Result: result}
}
