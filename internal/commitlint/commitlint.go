// Package commitlint derives a project-specific commit convention from the
// repository's commitlint rules and keeps the generated consistency example
// in a YAML file next to the project.
package commitlint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotConfigured = errors.New("commitlint consistency file has not been generated")
	ErrNoRules       = errors.New("no commitlint configuration found in repository")
)

// Consistency is the example answer the model is shown for the fixed example diff.
type Consistency struct {
	CommitFix         string `yaml:"commit_fix"`
	CommitFeat        string `yaml:"commit_feat"`
	CommitDescription string `yaml:"commit_description,omitempty"`
}

// LLMConfig is the pre-generated, project-specific prompt source.
type LLMConfig struct {
	Hash        string                 `yaml:"hash"`
	Prompts     []string               `yaml:"prompts"`
	Consistency map[string]Consistency `yaml:"consistency"`
}

// ConsistencyFor returns the example lines generated for language.
func (c *LLMConfig) ConsistencyFor(language string) (Consistency, bool) {
	if c == nil {
		return Consistency{}, false
	}
	cons, ok := c.Consistency[language]
	return cons, ok
}

// Store reads and writes the consistency file.
type Store struct {
	Root string
	Path string
}

func NewStore(root, path string) *Store {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return &Store{Root: root, Path: path}
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func (s *Store) Load() (*LLMConfig, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	var cfg LLMConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	return &cfg, nil
}

func (s *Store) Save(cfg *LLMConfig) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode consistency file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.Path), err)
	}
	if err := os.WriteFile(s.Path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

// IsStale reports whether the rules changed since cfg was generated.
func (s *Store) IsStale(cfg *LLMConfig) bool {
	rules, err := FindRules(s.Root)
	if err != nil {
		return false
	}
	return cfg.Hash != rules.Hash
}

// rulesFiles is the lookup order for commitlint configuration files.
var rulesFiles = []string{
	".commitlintrc",
	".commitlintrc.json",
	".commitlintrc.yaml",
	".commitlintrc.yml",
	"commitlint.config.js",
	"commitlint.config.cjs",
	"commitlint.config.mjs",
	"commitlint.config.ts",
}

// Rules is a located commitlint configuration rendered into prompt lines.
type Rules struct {
	Path    string
	Hash    string
	Prompts []string
}

func FindRules(root string) (*Rules, error) {
	for _, name := range rulesFiles {
		path := filepath.Join(root, name)
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		prompts, err := ParseRules(name, content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return &Rules{Path: path, Hash: Hash(content), Prompts: prompts}, nil
	}
	return nil, ErrNoRules
}

func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

type rulesDocument struct {
	Extends any              `yaml:"extends"`
	Rules   map[string][]any `yaml:"rules"`
}

var levels = map[int]string{1: "warning", 2: "error"}

// ParseRules renders the rules of a YAML or JSON commitlint file into one
// prompt line per enabled rule, sorted by rule name. Script configs cannot be
// evaluated and are passed through verbatim.
func ParseRules(name string, content []byte) ([]string, error) {
	switch filepath.Ext(name) {
	case ".js", ".cjs", ".mjs", ".ts":
		return []string{"Follow the commitlint configuration below:\n" + strings.TrimSpace(string(content))}, nil
	}

	var doc rulesDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	var prompts []string
	for _, preset := range extendsList(doc.Extends) {
		prompts = append(prompts, fmt.Sprintf("Follow the conventions of the %s preset.", preset))
	}

	names := make([]string, 0, len(doc.Rules))
	for n := range doc.Rules {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if line, ok := renderRule(n, doc.Rules[n]); ok {
			prompts = append(prompts, line)
		}
	}
	return prompts, nil
}

func extendsList(v any) []string {
	switch e := v.(type) {
	case string:
		return []string{e}
	case []any:
		out := make([]string, 0, len(e))
		for _, item := range e {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

func renderRule(name string, rule []any) (string, bool) {
	if len(rule) == 0 {
		return "", false
	}
	level, _ := rule[0].(int)
	label, ok := levels[level]
	if !ok {
		return "", false
	}

	applicability := "always"
	if len(rule) > 1 {
		applicability = fmt.Sprint(rule[1])
	}

	line := fmt.Sprintf("%s: level %s, applicable %s", name, label, applicability)
	if len(rule) > 2 {
		line += ", value " + renderValue(rule[2])
	}
	return line, true
}

func renderValue(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ", ")
}

// AskFunc requests the consistency example for the given rule prompts.
type AskFunc func(ctx context.Context, prompts []string) (string, error)

// Configure locates the rules, asks for a consistency example and stores the
// result for language.
func Configure(ctx context.Context, store *Store, language string, ask AskFunc) (*LLMConfig, error) {
	rules, err := FindRules(store.Root)
	if err != nil {
		return nil, err
	}

	answer, err := ask(ctx, rules.Prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate consistency example: %w", err)
	}

	cons, err := ParseConsistency(answer)
	if err != nil {
		return nil, err
	}

	cfg := &LLMConfig{
		Hash:        rules.Hash,
		Prompts:     rules.Prompts,
		Consistency: map[string]Consistency{language: cons},
	}
	if err := store.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConsistency reads a model answer of the form
// "<fix line>\n<feat line>\n[description...]".
func ParseConsistency(answer string) (Consistency, error) {
	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return Consistency{}, fmt.Errorf("unusable consistency example: %q", answer)
	}

	return Consistency{
		CommitFix:         lines[0],
		CommitFeat:        lines[1],
		CommitDescription: strings.Join(lines[2:], " "),
	}, nil
}
