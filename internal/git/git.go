package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/samzong/gitmsg/internal/gitcmd"
	"github.com/samzong/gitmsg/internal/stringsutil"
	"go.uber.org/zap"
)

var ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")

// excludedFromDiff are substrings of paths whose content is never sent to the model.
var excludedFromDiff = []string{
	".lock", "-lock.", ".svg", ".png", ".jpg", ".jpeg", ".webp", ".gif",
}

type Options struct {
	Verbose    bool
	Dir        string
	Logger     *zap.Logger
	LogWriter  io.Writer
	IgnoreFile string
}

// Client runs git in a single repository. All paths are relative to Dir.
type Client struct {
	runner     gitcmd.Runner
	log        *zap.Logger
	ignoreFile string
}

func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		runner:     gitcmd.Runner{Verbose: opts.Verbose, Dir: opts.Dir, Logger: opts.LogWriter},
		log:        log,
		ignoreFile: opts.IgnoreFile,
	}
}

// FindRoot returns the top-level directory of the repository containing dir.
func FindRoot(ctx context.Context, dir string) (string, error) {
	result, err := gitcmd.Runner{Dir: dir}.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", ErrNotGitRepository
	}
	return result.StdoutString(true), nil
}

func wrapError(action string, result gitcmd.Result, err error) error {
	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
		return fmt.Errorf("%s: %s: %w", action, stderr, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (c *Client) git(ctx context.Context, action string, args ...string) (gitcmd.Result, error) {
	result, err := c.runner.RunLogged(ctx, args...)
	c.log.Debug("git", zap.Strings("args", args), zap.Error(err))
	if err != nil {
		return result, wrapError(action, result, err)
	}
	return result, nil
}

func (c *Client) CheckRepository(ctx context.Context) error {
	result, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || result.StdoutString(true) != "true" {
		return ErrNotGitRepository
	}
	return nil
}

// ChangedFiles lists modified tracked files and untracked, non-ignored files.
func (c *Client) ChangedFiles(ctx context.Context) ([]string, error) {
	modified, err := c.git(ctx, "git ls-files --modified failed", "ls-files", "--modified")
	if err != nil {
		return nil, err
	}
	untracked, err := c.git(ctx, "git ls-files --others failed", "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	files := append(modified.Lines(), untracked.Lines()...)
	sort.Strings(files)
	return stringsutil.UniqueStrings(files), nil
}

// StagedFiles lists every staged path. Paths matched by the ignore file are
// still committed; ExcludedFiles reports them.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	result, err := c.git(ctx, "git diff --cached --name-only failed", "diff", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	return result.Lines(), nil
}

// ExcludedFiles returns the files whose content Diff leaves out: lockfiles and
// images plus paths matched by the ignore file.
func (c *Client) ExcludedFiles(files []string) ([]string, error) {
	matcher, err := c.ignoreMatcher()
	if err != nil {
		return nil, err
	}

	var excluded []string
	for _, file := range files {
		if isExcluded(file) || (matcher != nil && matcher.Match(strings.Split(file, "/"), false)) {
			excluded = append(excluded, file)
		}
	}
	return excluded, nil
}

func (c *Client) ignoreMatcher() (gitignore.Matcher, error) {
	if c.ignoreFile == "" {
		return nil, nil
	}
	path := c.ignoreFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.runner.Dir, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	return gitignore.NewMatcher(ParseIgnore(string(content))), nil
}

// ParseIgnore parses gitignore-style lines, skipping blanks and comments.
func ParseIgnore(content string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func isExcluded(file string) bool {
	for _, pattern := range excludedFromDiff {
		if strings.Contains(file, pattern) {
			return true
		}
	}
	return false
}

// Diff returns the staged diff restricted to files, without excluded files.
func (c *Client) Diff(ctx context.Context, files []string) (string, error) {
	excluded, err := c.ExcludedFiles(files)
	if err != nil {
		return "", err
	}
	skip := make(map[string]bool, len(excluded))
	for _, f := range excluded {
		skip[f] = true
		c.log.Debug("file left out of the diff", zap.String("file", f))
	}

	args := []string{"diff", "--staged", "--"}
	for _, f := range files {
		if !skip[f] {
			args = append(args, f)
		}
	}
	if len(args) == 3 {
		return "", nil
	}

	result, err := c.git(ctx, "git diff --staged failed", args...)
	if err != nil {
		return "", err
	}
	return result.StdoutString(false), nil
}

func (c *Client) Stage(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := c.git(ctx, "git add failed", args...)
	return err
}

// Commit runs git commit with message and the pass-through args and returns stdout.
func (c *Client) Commit(ctx context.Context, message string, args []string) (string, error) {
	if err := guardTestCommit(c.runner.Dir); err != nil {
		return "", err
	}

	commitArgs := append([]string{"commit", "-m", message}, args...)
	result, err := c.git(ctx, "git commit failed", commitArgs...)
	if err != nil {
		return "", err
	}
	return result.StdoutString(true), nil
}

func (c *Client) Remotes(ctx context.Context) ([]string, error) {
	result, err := c.git(ctx, "git remote failed", "remote")
	if err != nil {
		return nil, err
	}
	return result.Lines(), nil
}

// Push pushes the current branch. An empty remote lets git pick the default.
func (c *Client) Push(ctx context.Context, remote string, verbose bool) (string, error) {
	args := []string{"push"}
	if verbose {
		args = append(args, "--verbose")
	}
	if remote != "" {
		args = append(args, remote)
	}

	result, err := c.git(ctx, "git push failed", args...)
	if err != nil {
		return "", err
	}
	return result.StdoutString(true), nil
}

// guardTestCommit refuses to commit outside temp directories while tests run.
func guardTestCommit(dir string) error {
	if os.Getenv("GO_TEST_ENV") != "1" {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("SAFETY: cannot resolve repository path: %w", err)
	}
	tmp, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		tmp = os.TempDir()
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if !strings.HasPrefix(abs, tmp) {
		return fmt.Errorf("SAFETY: refusing to commit in %s during tests", abs)
	}
	return nil
}
