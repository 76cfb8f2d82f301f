// Package prompt assembles the instruction sequence sent to the generation
// backend. Every function here is pure: the same diff, context and
// configuration always yield the same sequence.
package prompt

import (
	"fmt"
	"strings"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/emoji"
	"github.com/samzong/gitmsg/internal/i18n"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged instruction.
type Message struct {
	Role    Role
	Content string
}

// Sequence is an ordered list of instructions; order is significant.
type Sequence []Message

const (
	identity = "You are to act as the author of a commit message in git."

	diffInstruction = "I'll send you an output of 'git diff --staged' command, " +
		"and you are to convert it into a commit message."

	// KeywordRestriction is the convention block used when emoji are disabled.
	KeywordRestriction = "Do not preface the commit with anything, except for the conventional commit keywords: " +
		"fix, feat, build, chore, ci, docs, style, refactor, perf, test."

	descriptionOn = "Add a short description of WHY the changes are done after the commit message. " +
		"Don't start it with \"This commit\", just describe the changes."
	descriptionOff = "Don't add any descriptions to the commit, only commit message."

	oneLineOn = "Craft a concise, single sentence, commit message that encapsulates all changes made, " +
		"with an emphasis on the primary updates. If the modifications share a common theme or scope, " +
		"mention it succinctly; otherwise, leave the scope out to maintain focus. The goal is to provide " +
		"a clear and unified overview of the changes in one single message."

	omitScopeOn = "Do not include a scope in the commit message format. Use the format: <type>: <subject>"

	guidelinesFormat = "Use the present tense. Lines must not be longer than 74 characters. " +
		"Use %s for the commit message."

	contextFormat = "Additional context provided by the user: <context>%s</context>\n" +
		"Consider this context when generating the commit message, incorporating relevant information when appropriate."
)

// ExampleDiff is the canonical diff shown to the model before the real one.
const ExampleDiff = `diff --git a/src/server.ts b/src/server.ts
index ad4db42..f3b18a9 100644
--- a/src/server.ts
+++ b/src/server.ts
@@ -10,7 +10,7 @@
import {
    initWinstonLogger();

    const app = express();
    -const port = 7799;
    +const PORT = 7799;

    app.use(express.json());

    @@ -34,6 +34,6 @@
    app.use((_, res, next) => {
        // ROUTES
        app.use(PROTECTED_ROUTER_URL, protectedRouter);

        -app.listen(port, () => {
            -  console.log(` + "`Server listening on port ${port}`" + `);
            +app.listen(process.env.PORT || PORT, () => {
                +  console.log(` + "`Server listening on port ${PORT}`" + `);
            });`

// GeneralGuidelines returns the fixed guideline clause for language.
func GeneralGuidelines(language string) string {
	return fmt.Sprintf(guidelinesFormat, language)
}

// ConventionBlock selects the short help list, the full GitMoji list or the
// keyword restriction.
func ConventionBlock(cfg *config.Config, full bool) string {
	if !cfg.Emoji {
		return KeywordRestriction
	}
	return emoji.HelpText(full)
}

func descriptionClause(cfg *config.Config) string {
	if cfg.Description {
		return descriptionOn
	}
	return descriptionOff
}

func oneLineClause(cfg *config.Config) string {
	if cfg.OneLineCommit {
		return oneLineOn
	}
	return ""
}

func scopeClause(cfg *config.Config) string {
	if cfg.OmitScope {
		return omitScopeOn
	}
	return ""
}

// ContextClause wraps non-blank user context; blank context yields "".
func ContextClause(extra string) string {
	if strings.TrimSpace(extra) == "" {
		return ""
	}
	return fmt.Sprintf(contextFormat, extra)
}

func missionStatement(cfg *config.Config) string {
	convention := "Conventional Commit Convention"
	if cfg.Emoji {
		convention = "GitMoji specification"
	}
	return fmt.Sprintf("%s Your mission is to create clean and comprehensive commit messages as per the %s "+
		"and explain WHAT were the changes and mainly WHY the changes were done.", identity, convention)
}

// SystemInstruction builds the single system message of the default module.
func SystemInstruction(cfg *config.Config, full bool, extra string) Message {
	language := i18n.Lookup(cfg.Language).LocalLanguage
	parts := []string{
		missionStatement(cfg),
		diffInstruction,
		ConventionBlock(cfg, full),
		descriptionClause(cfg),
		oneLineClause(cfg),
		scopeClause(cfg),
		GeneralGuidelines(language),
		ContextClause(extra),
	}
	return Message{Role: RoleSystem, Content: strings.Join(parts, "\n")}
}

// ExampleAnswer builds the assistant example so it follows the active toggles.
func ExampleAnswer(cfg *config.Config, cons commitlint.Consistency) string {
	fix := commitString(cfg, "fix", cons.CommitFix)
	feat := ""
	if !cfg.OneLineCommit {
		feat = commitString(cfg, "feat", cons.CommitFeat)
	}
	description := ""
	if cfg.Description {
		description = cons.CommitDescription
	}

	lines := make([]string, 0, 3)
	for _, l := range []string{fix, feat, description} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func commitString(cfg *config.Config, commitType, message string) string {
	if !cfg.Emoji {
		return message
	}
	return emoji.Prefix(commitType, message)
}

// localeConsistency picks the scoped or scope-less example lines for the locale.
func localeConsistency(cfg *config.Config) commitlint.Consistency {
	l := i18n.Lookup(cfg.Language)
	cons := commitlint.Consistency{
		CommitFix:         l.CommitFix,
		CommitFeat:        l.CommitFeat,
		CommitDescription: l.CommitDescription,
	}
	if cfg.OmitScope {
		if l.CommitFixOmitScope != "" {
			cons.CommitFix = l.CommitFixOmitScope
		}
		if l.CommitFeatOmitScope != "" {
			cons.CommitFeat = l.CommitFeatOmitScope
		}
	}
	return cons
}

// Build returns [system, user example, assistant example] for the default
// convention module. The caller appends the real diff with WithDiff.
func Build(extra string, full bool, cfg *config.Config) Sequence {
	return Sequence{
		SystemInstruction(cfg, full, extra),
		{Role: RoleUser, Content: ExampleDiff},
		{Role: RoleAssistant, Content: ExampleAnswer(cfg, localeConsistency(cfg))},
	}
}

// WithDiff returns a copy of seq with the real diff appended as the final
// user instruction.
func WithDiff(seq Sequence, diff string) Sequence {
	out := make(Sequence, 0, len(seq)+1)
	out = append(out, seq...)
	return append(out, Message{Role: RoleUser, Content: diff})
}
