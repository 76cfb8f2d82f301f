package workflow

import (
	"context"
	"errors"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/i18n"
	"github.com/samzong/gitmsg/internal/prompt"
	"go.uber.org/zap"
)

// CommitlintSource loads the consistency file, regenerating it when it is
// missing or the rules it was built from have changed.
type CommitlintSource struct {
	store *commitlint.Store
	cfg   *config.Config
	llm   Completer
	log   *zap.Logger
}

func NewCommitlintSource(store *commitlint.Store, cfg *config.Config, llm Completer, log *zap.Logger) *CommitlintSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommitlintSource{store: store, cfg: cfg, llm: llm, log: log}
}

func (s *CommitlintSource) Resolve(ctx context.Context) (*commitlint.LLMConfig, error) {
	llmCfg, err := s.store.Load()
	switch {
	case errors.Is(err, commitlint.ErrNotConfigured):
		s.log.Debug("consistency file missing", zap.String("path", s.store.Path))
	case err != nil:
		return nil, err
	case s.store.IsStale(llmCfg):
		s.log.Debug("consistency file is stale", zap.String("path", s.store.Path))
	default:
		return llmCfg, nil
	}
	return s.Configure(ctx)
}

// Configure regenerates the consistency file for the configured language.
func (s *CommitlintSource) Configure(ctx context.Context) (*commitlint.LLMConfig, error) {
	language := i18n.Lookup(s.cfg.Language).LocalLanguage
	return commitlint.Configure(ctx, s.store, language, func(ctx context.Context, prompts []string) (string, error) {
		return s.llm.Complete(ctx, prompt.ConsistencyRequest(s.cfg, prompts))
	})
}
