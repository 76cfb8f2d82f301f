package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "config", DefaultConfigName)
	assert.Equal(t, "gitmsg", DefaultConfigDir)
	assert.Equal(t, "GITMSG", EnvPrefix)
	assert.Equal(t, "$msg", DefaultPlaceholder)
	assert.Equal(t, "en", DefaultLanguage)
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Emoji)
	assert.False(t, cfg.Description)
	assert.True(t, cfg.GitPush)
	assert.True(t, cfg.AutoStage)
	assert.Equal(t, PromptModuleConventional, cfg.PromptModule)
	assert.False(t, cfg.IsCommitlint())
}

func TestInitConfig_CreatesFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, InitConfig(path))

	_, err := os.Stat(path)
	require.NoError(t, err, "config file should be created on first run")

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInitConfig_ReadsExistingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "emoji: true\nlanguage: zh_CN\ngitpush: false\nmodel: gpt-4o\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, InitConfig(path))
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Emoji)
	assert.False(t, cfg.GitPush)
	assert.Equal(t, "zh_CN", cfg.Language)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, DefaultPlaceholder, cfg.MessageTemplatePlaceholder)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GITMSG_ONE_LINE_COMMIT", "true")
	t.Setenv("GITMSG_API_KEY", "sk-env")

	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "config.yaml")))
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.True(t, cfg.OneLineCommit)
	assert.Equal(t, "sk-env", cfg.APIKey)
}

func TestSetConfigValue(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		want    any
	}{
		{name: "bool true", key: "emoji", value: "true", want: true},
		{name: "bool off", key: "gitpush", value: "off", want: false},
		{name: "bad bool", key: "omit_scope", value: "maybe", wantErr: true},
		{name: "int", key: "timeout", value: "45", want: 45},
		{name: "bad int", key: "max_diff_bytes", value: "-1", wantErr: true},
		{name: "string", key: "language", value: "ja", want: "ja"},
		{name: "prompt module", key: "prompt_module", value: "@commitlint", want: "@commitlint"},
		{name: "bad prompt module", key: "prompt_module", value: "@other", wantErr: true},
		{name: "unknown key", key: "nope", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetConfigValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, viper.Get(tt.key))
		})
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, len(defaults))
	assert.IsNonDecreasing(t, keys)
	assert.Contains(t, keys, "message_template_placeholder")
}

func TestGetSuggestedModels(t *testing.T) {
	assert.Contains(t, GetSuggestedModels(), DefaultModel)
}

func TestDescribe(t *testing.T) {
	for _, key := range Keys() {
		d, ok := Describe(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, d, key)
	}

	_, ok := Describe("role")
	assert.False(t, ok)

	d, _ := Describe(" GITPUSH ")
	assert.Contains(t, d, "push")
}
