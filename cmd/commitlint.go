package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/git"
	"github.com/samzong/gitmsg/internal/ui"
	"github.com/samzong/gitmsg/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	commitlintCmd = &cobra.Command{
		Use:   "commitlint",
		Short: "Manage the @commitlint prompt module",
		Long: `The @commitlint prompt module builds the commit convention from the
project's commitlint rules. Its consistency file is generated once with the LLM
and regenerated when the rules change.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return nil
		},
	}

	commitlintInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Generate the commitlint consistency file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommitlintInit(cmd.Context(), outWriter())
		},
	}

	commitlintGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Show the commitlint consistency file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommitlintGet(cmd.Context(), outWriter())
		},
	}
)

func init() {
	commitlintCmd.AddCommand(commitlintInitCmd)
	commitlintCmd.AddCommand(commitlintGetCmd)
	rootCmd.AddCommand(commitlintCmd)
}

func commitlintStore(ctx context.Context, cfg *config.Config) (*commitlint.Store, error) {
	root, err := git.FindRoot(ctx, ".")
	if err != nil {
		return nil, err
	}
	return commitlint.NewStore(root, cfg.CommitlintConfig), nil
}

func runCommitlintInit(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	store, err := commitlintStore(ctx, cfg)
	if err != nil {
		return err
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	generator, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	sp := ui.NewSpinner(errWriter(), "Generating the commitlint consistency file")
	sp.Start()
	llmCfg, err := workflow.NewCommitlintSource(store, cfg, generator, log).Configure(ctx)
	sp.Stop()
	if err != nil {
		if errors.Is(err, commitlint.ErrNoRules) {
			return fmt.Errorf("%w: add a .commitlintrc or commitlint.config file first", err)
		}
		return err
	}

	fmt.Fprintln(w, ui.Format(ui.LevelSuccess, fmt.Sprintf("Wrote %s (%d rules)", store.Path, len(llmCfg.Prompts))))
	if !cfg.IsCommitlint() {
		fmt.Fprintf(w, "Enable it with: gitmsg config set prompt_module %s\n", config.PromptModuleCommitlint)
	}
	return nil
}

func runCommitlintGet(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	store, err := commitlintStore(ctx, cfg)
	if err != nil {
		return err
	}

	llmCfg, err := store.Load()
	if err != nil {
		if errors.Is(err, commitlint.ErrNotConfigured) {
			return fmt.Errorf("%w, run: gitmsg commitlint init", err)
		}
		return err
	}
	printConsistency(w, store, llmCfg)
	return nil
}

func printConsistency(w io.Writer, store *commitlint.Store, llmCfg *commitlint.LLMConfig) {
	fmt.Fprintf(w, "file: %s\n", store.Path)
	if store.IsStale(llmCfg) {
		fmt.Fprintln(w, ui.Format(ui.LevelWarn, "rules changed since generation, run: gitmsg commitlint init"))
	}

	fmt.Fprintln(w, "prompts:")
	for _, p := range llmCfg.Prompts {
		fmt.Fprintf(w, "  - %s\n", p)
	}

	languages := make([]string, 0, len(llmCfg.Consistency))
	for lang := range llmCfg.Consistency {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	for _, lang := range languages {
		cons := llmCfg.Consistency[lang]
		fmt.Fprintf(w, "consistency (%s):\n  %s\n  %s\n", lang, cons.CommitFix, cons.CommitFeat)
		if cons.CommitDescription != "" {
			fmt.Fprintf(w, "  %s\n", cons.CommitDescription)
		}
	}
}
