package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samzong/gitmsg/internal/commitlint"
	"github.com/samzong/gitmsg/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `extends: ["@commitlint/config-conventional"]
rules:
  type-enum: [2, always, [feat, fix]]
`

func TestCommitlintSource_Resolve(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	rulesPath := filepath.Join(root, ".commitlintrc.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(rulesYAML), 0o644))

	cfg := config.Default()
	store := commitlint.NewStore(root, cfg.CommitlintConfig)
	llm := &fakeCompleter{reply: "fix(server): change port\nfeat(server): allow custom port\nThe port was hardcoded."}
	src := NewCommitlintSource(store, cfg, llm, nil)

	llmCfg, err := src.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.True(t, store.Exists())
	assert.Contains(t, llmCfg.Prompts, "type-enum: level error, applicable always, value feat, fix")

	cons, ok := llmCfg.ConsistencyFor("english")
	require.True(t, ok)
	assert.Equal(t, "feat(server): allow custom port", cons.CommitFeat)
	require.Len(t, llm.seqs, 1)
	assert.Contains(t, llm.seqs[0][0].Content, "type-enum")

	_, err = src.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls, "a fresh consistency file is reused")

	require.NoError(t, os.WriteFile(rulesPath, []byte(rulesYAML+"  subject-case: [1, never, upper-case]\n"), 0o644))
	llmCfg, err = src.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls, "changed rules regenerate the file")
	assert.Len(t, llmCfg.Prompts, 3)
}

func TestCommitlintSource_NoRules(t *testing.T) {
	cfg := config.Default()
	src := NewCommitlintSource(commitlint.NewStore(t.TempDir(), cfg.CommitlintConfig), cfg, &fakeCompleter{}, nil)

	_, err := src.Resolve(context.Background())
	assert.ErrorIs(t, err, commitlint.ErrNoRules)
}
