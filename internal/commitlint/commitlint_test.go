package commitlint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlRules = `extends:
  - "@commitlint/config-conventional"
rules:
  type-enum: [2, always, [feat, fix, docs]]
  subject-case: [0]
  header-max-length: [1, always, 72]
  scope-empty: [2, never]
`

func TestParseRules_YAML(t *testing.T) {
	prompts, err := ParseRules(".commitlintrc.yaml", []byte(yamlRules))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Follow the conventions of the @commitlint/config-conventional preset.",
		"header-max-length: level warning, applicable always, value 72",
		"scope-empty: level error, applicable never",
		"type-enum: level error, applicable always, value feat, fix, docs",
	}, prompts)
}

func TestParseRules_JSON(t *testing.T) {
	content := `{"extends": "@commitlint/config-angular", "rules": {"body-leading-blank": [1, "always"]}}`
	prompts, err := ParseRules(".commitlintrc.json", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Follow the conventions of the @commitlint/config-angular preset.",
		"body-leading-blank: level warning, applicable always",
	}, prompts)
}

func TestParseRules_Script(t *testing.T) {
	content := "module.exports = { extends: ['@commitlint/config-conventional'] };\n"
	prompts, err := ParseRules("commitlint.config.js", []byte(content))
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "module.exports")
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules(".commitlintrc.yaml", []byte("rules: [unclosed"))
	assert.Error(t, err)
}

func TestFindRules(t *testing.T) {
	root := t.TempDir()

	_, err := FindRules(root)
	assert.ErrorIs(t, err, ErrNoRules)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".commitlintrc.yml"), []byte(yamlRules), 0o644))
	rules, err := FindRules(root)
	require.NoError(t, err)
	assert.Equal(t, Hash([]byte(yamlRules)), rules.Hash)
	assert.Len(t, rules.Prompts, 4)
}

func TestStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, ".gitmsg/commitlint.yaml")

	assert.False(t, store.Exists())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg := &LLMConfig{
		Hash:    "abc",
		Prompts: []string{"type-enum: level error, applicable always, value feat, fix"},
		Consistency: map[string]Consistency{
			"english": {CommitFix: "fix(a): b", CommitFeat: "feat(a): c", CommitDescription: "d"},
		},
	}
	require.NoError(t, store.Save(cfg))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	cons, ok := loaded.ConsistencyFor("english")
	assert.True(t, ok)
	assert.Equal(t, "fix(a): b", cons.CommitFix)
	_, ok = loaded.ConsistencyFor("deutsch")
	assert.False(t, ok)
}

func TestStore_IsStale(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".commitlintrc.yaml"), []byte(yamlRules), 0o644))
	store := NewStore(root, "c.yaml")

	assert.False(t, store.IsStale(&LLMConfig{Hash: Hash([]byte(yamlRules))}))
	assert.True(t, store.IsStale(&LLMConfig{Hash: "old"}))
}

func TestParseConsistency(t *testing.T) {
	cons, err := ParseConsistency("```\nfix(server): rename port\n\nfeat(server): read PORT env\nBecause constants.\nMore.\n```")
	require.NoError(t, err)
	assert.Equal(t, Consistency{
		CommitFix:         "fix(server): rename port",
		CommitFeat:        "feat(server): read PORT env",
		CommitDescription: "Because constants. More.",
	}, cons)

	_, err = ParseConsistency("only one line")
	assert.Error(t, err)
}

func TestConfigure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".commitlintrc.yaml"), []byte(yamlRules), 0o644))
	store := NewStore(root, ".gitmsg/commitlint.yaml")

	var gotPrompts []string
	cfg, err := Configure(context.Background(), store, "english", func(_ context.Context, prompts []string) (string, error) {
		gotPrompts = prompts
		return "fix(server): a\nfeat(server): b", nil
	})
	require.NoError(t, err)

	assert.Len(t, gotPrompts, 4)
	assert.Equal(t, gotPrompts, cfg.Prompts)
	assert.True(t, store.Exists())
	cons, ok := cfg.ConsistencyFor("english")
	assert.True(t, ok)
	assert.Empty(t, cons.CommitDescription)
}

func TestConfigure_Errors(t *testing.T) {
	t.Run("no rules", func(t *testing.T) {
		store := NewStore(t.TempDir(), "c.yaml")
		_, err := Configure(context.Background(), store, "english", nil)
		assert.ErrorIs(t, err, ErrNoRules)
	})

	t.Run("generator fails", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ".commitlintrc.yaml"), []byte(yamlRules), 0o644))
		store := NewStore(root, "c.yaml")
		boom := errors.New("quota")

		_, err := Configure(context.Background(), store, "english", func(context.Context, []string) (string, error) {
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, store.Exists())
	})
}
