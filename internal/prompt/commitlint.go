package prompt

import (
	"fmt"
	"strings"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/i18n"
)

// CommitlintSystemInstruction sources the convention from the project's
// generated commitlint prompts instead of the built-in blocks.
func CommitlintSystemInstruction(cfg *config.Config, extra string, prompts []string) Message {
	language := i18n.Lookup(cfg.Language).LocalLanguage

	preface := "Do not preface the commit with anything."
	if cfg.Emoji {
		preface = "Use GitMoji convention to preface the commit."
	}

	parts := []string{
		identity + " Your mission is to create clean and comprehensive commit messages in the given " +
			"@commitlint convention and explain WHAT were the changes and WHY the changes were done.",
		diffInstruction,
		preface,
		descriptionClause(cfg),
		GeneralGuidelines(language),
		"You will strictly follow the following conventions to generate the content of the commit message:",
		"- " + strings.Join(prompts, "\n- "),
		ContextClause(extra),
	}
	return Message{Role: RoleSystem, Content: strings.Join(parts, "\n")}
}

// BuildCommitlint is the prompt-module branch of Build. The example answer
// comes from the consistency lines generated for the active language, falling
// back to the built-in locale lines when none were generated for it.
func BuildCommitlint(extra string, cfg *config.Config, llmCfg *commitlint.LLMConfig) Sequence {
	language := i18n.Lookup(cfg.Language).LocalLanguage
	cons, ok := llmCfg.ConsistencyFor(language)
	if !ok {
		cons = localeConsistency(cfg)
	}

	return Sequence{
		CommitlintSystemInstruction(cfg, extra, llmCfg.Prompts),
		{Role: RoleUser, Content: ExampleDiff},
		{Role: RoleAssistant, Content: ExampleAnswer(cfg, cons)},
	}
}

// ConsistencyRequest asks the backend for a fix/feat/description example of
// ExampleDiff that obeys the given commitlint prompts.
func ConsistencyRequest(cfg *config.Config, prompts []string) Sequence {
	language := i18n.Lookup(cfg.Language).LocalLanguage
	system := fmt.Sprintf("%s Your mission is to write example commit messages that strictly follow "+
		"these commitlint conventions:\n- %s\n"+
		"Answer with exactly three lines and nothing else: a fix commit message, a feat commit message "+
		"and a one sentence description of WHY the changes were done. Use %s.",
		identity, strings.Join(prompts, "\n- "), language)

	return Sequence{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: ExampleDiff},
	}
}
