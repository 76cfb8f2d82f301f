package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every option consumed by the prompt assembler and the commit flow.
// It is loaded once per process and never mutated by the core.
type Config struct {
	Emoji                      bool   `mapstructure:"emoji"`
	FullGitMoji                bool   `mapstructure:"full_gitmoji"`
	Description                bool   `mapstructure:"description"`
	OneLineCommit              bool   `mapstructure:"one_line_commit"`
	OmitScope                  bool   `mapstructure:"omit_scope"`
	MessageTemplatePlaceholder string `mapstructure:"message_template_placeholder"`
	GitPush                    bool   `mapstructure:"gitpush"`
	Language                   string `mapstructure:"language"`
	PromptModule               string `mapstructure:"prompt_module"`
	AutoStage                  bool   `mapstructure:"auto_stage"`

	APIKey       string `mapstructure:"api_key"`
	APIBase      string `mapstructure:"api_base"`
	Model        string `mapstructure:"model"`
	Timeout      int    `mapstructure:"timeout"`
	MaxDiffBytes int    `mapstructure:"max_diff_bytes"`

	CommitlintConfig string `mapstructure:"commitlint_config"`
	IgnoreFile       string `mapstructure:"ignore_file"`
}

const (
	DefaultConfigName   = "config"
	DefaultConfigDir    = "gitmsg"
	EnvPrefix           = "GITMSG"
	DefaultModel        = "gpt-4o-mini"
	DefaultLanguage     = "en"
	DefaultPlaceholder  = "$msg"
	DefaultTimeout      = 30
	DefaultMaxDiffBytes = 12000
	DefaultCommitlint   = ".gitmsg/commitlint.yaml"
	DefaultIgnoreFile   = ".gitmsgignore"
)

// Prompt modules.
const (
	PromptModuleConventional = "conventional-commit"
	PromptModuleCommitlint   = "@commitlint"
)

var defaults = map[string]any{
	"emoji":                        false,
	"full_gitmoji":                 false,
	"description":                  false,
	"one_line_commit":              false,
	"omit_scope":                   false,
	"message_template_placeholder": DefaultPlaceholder,
	"gitpush":                      true,
	"language":                     DefaultLanguage,
	"prompt_module":                PromptModuleConventional,
	"auto_stage":                   true,
	"api_key":                      "",
	"api_base":                     "",
	"model":                        DefaultModel,
	"timeout":                      DefaultTimeout,
	"max_diff_bytes":               DefaultMaxDiffBytes,
	"commitlint_config":            DefaultCommitlint,
	"ignore_file":                  DefaultIgnoreFile,
}

var descriptions = map[string]string{
	"emoji":                        "Preface messages with GitMoji",
	"full_gitmoji":                 "Use the full GitMoji list instead of the short one",
	"description":                  "Append a short explanation of why the changes were done",
	"one_line_commit":              "Describe all changes in a single line",
	"omit_scope":                   "Use <type>: <subject> without a scope",
	"message_template_placeholder": "Token in a pass-through argument that is replaced by the message",
	"gitpush":                      "Offer to push after a successful commit",
	"language":                     "Language of the generated message",
	"prompt_module":                "conventional-commit or @commitlint",
	"auto_stage":                   "Stage all changed files without asking when nothing is staged",
	"api_key":                      "API key of the OpenAI compatible backend",
	"api_base":                     "Base URL of the OpenAI compatible backend",
	"model":                        "Model used to generate messages",
	"timeout":                      "Backend request timeout in seconds",
	"max_diff_bytes":               "Diff size sent per request before splitting by file",
	"commitlint_config":            "Path of the generated commitlint consistency file",
	"ignore_file":                  "Gitignore-style file of staged paths never sent to the model",
}

var suggestedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"gpt-3.5-turbo",
}

// InitConfig wires viper to the config file, environment and defaults.
// A missing config file is created with default values.
func InitConfig(cfgFile string) error {
	configPath := cfgFile
	if configPath == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(dir, DefaultConfigName+".yaml")
	}
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}
	return nil
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, DefaultConfigDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultConfigDir), nil
}

// GetConfig decodes the current viper state.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Default returns a Config populated only from built-in defaults.
func Default() *Config {
	return &Config{
		MessageTemplatePlaceholder: DefaultPlaceholder,
		GitPush:                    true,
		Language:                   DefaultLanguage,
		PromptModule:               PromptModuleConventional,
		AutoStage:                  true,
		Model:                      DefaultModel,
		Timeout:                    DefaultTimeout,
		MaxDiffBytes:               DefaultMaxDiffBytes,
		CommitlintConfig:           DefaultCommitlint,
		IgnoreFile:                 DefaultIgnoreFile,
	}
}

// SetConfigValue validates and stores a single key. The change is only
// persisted by SaveConfig.
func SetConfigValue(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := defaults[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	switch def.(type) {
	case bool:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			viper.Set(key, true)
		case "false", "0", "no", "off":
			viper.Set(key, false)
		default:
			return fmt.Errorf("invalid boolean value for %s: %q", key, value)
		}
	case int:
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("invalid positive integer for %s: %q", key, value)
		}
		viper.Set(key, n)
	default:
		if key == "prompt_module" && value != PromptModuleConventional && value != PromptModuleCommitlint {
			return fmt.Errorf("invalid prompt module %q, use %s or %s",
				value, PromptModuleConventional, PromptModuleCommitlint)
		}
		viper.Set(key, value)
	}
	return nil
}

func SaveConfig() error {
	return viper.WriteConfig()
}

// Keys returns all configuration keys in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns the help text of key.
func Describe(key string) (string, bool) {
	d, ok := descriptions[strings.ToLower(strings.TrimSpace(key))]
	return d, ok
}

func GetSuggestedModels() []string {
	return suggestedModels
}

// IsCommitlint reports whether prompts come from the project's commitlint rules.
func (c *Config) IsCommitlint() bool {
	return c != nil && c.PromptModule == PromptModuleCommitlint
}
