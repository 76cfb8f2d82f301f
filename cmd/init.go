package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/samzong/gitmsg/internal/config"
	"github.com/samzong/gitmsg/internal/ui"
	"github.com/samzong/gitmsg/internal/workflow"
	"github.com/spf13/cobra"
)

const (
	connectionTestTimeout = 30 * time.Second
	stageInit             = "init"
	skipInitHint          = "Run `gitmsg init` anytime, or set the key with `gitmsg config set api_key <key>`."
)

var (
	errAPIKeyRequired = errors.New("an API key is required")

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Configure the LLM backend interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}

			p := newInitPrompter()
			if err := runInitWizard(contextOrBackground(cmd.Context()), p, cfg); err != nil {
				return promptFailure(errWriter(), err)
			}
			p.Notify(ui.LevelSuccess, "Initialization complete")
			return nil
		},
	}

	newInitPrompter = func() initPrompter { return ui.NewTerminal(errWriter()) }

	saveConfigValues = func(s backendSettings) error {
		for _, kv := range [][2]string{{"api_key", s.APIKey}, {"model", s.Model}, {"api_base", s.APIBase}} {
			if err := config.SetConfigValue(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return config.SaveConfig()
	}

	testLLMConnection = func(ctx context.Context, model string) error {
		cfg, err := config.GetConfig()
		if err != nil {
			return err
		}
		cfg.Model = model
		client, err := newGenerator(cfg, nil)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, connectionTestTimeout)
		defer cancel()
		return client.TestConnection(ctx)
	}
)

// initPrompter is the part of ui.Terminal the setup wizard talks to.
type initPrompter interface {
	Input(ctx context.Context, in ui.Input) (string, error)
	Confirm(ctx context.Context, title string) (bool, error)
	Notify(level ui.Level, text string)
	StartSpinner(label string)
	StopSpinner(label string)
}

type backendSettings struct {
	APIKey  string
	Model   string
	APIBase string
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func runInitWizard(ctx context.Context, p initPrompter, current *config.Config) error {
	if current == nil {
		var err error
		if current, err = config.GetConfig(); err != nil {
			return err
		}
	}

	p.Notify(ui.LevelInfo, "gitmsg init - configure your LLM backend")
	settings, err := askBackendSettings(ctx, p, current)
	if err != nil {
		return err
	}
	if err := saveConfigValues(settings); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	p.Notify(ui.LevelSuccess, "Configuration saved")

	return checkConnection(ctx, p, settings.Model)
}

// askBackendSettings collects the backend fields. A blank key keeps the
// current one, a blank model falls back to the default and a blank base URL
// selects the OpenAI endpoint.
func askBackendSettings(ctx context.Context, p initPrompter, current *config.Config) (backendSettings, error) {
	s := backendSettings{APIKey: current.APIKey, Model: current.Model, APIBase: current.APIBase}
	if s.Model == "" {
		s.Model = config.DefaultModel
	}

	keyTitle := "API key"
	if current.APIKey != "" {
		keyTitle = "API key (leave blank to keep the current one)"
	}
	key, err := p.Input(ctx, ui.Input{Title: keyTitle, Secret: true, Validate: requireAPIKey(current.APIKey)})
	if err != nil {
		return s, err
	}
	if key != "" {
		s.APIKey = key
	}

	model, err := p.Input(ctx, ui.Input{Title: "Model", Placeholder: s.Model, Value: s.Model})
	if err != nil {
		return s, err
	}
	if model != "" {
		s.Model = model
	}

	s.APIBase, err = p.Input(ctx, ui.Input{
		Title:       "API base URL",
		Placeholder: "https://api.openai.com/v1",
		Value:       current.APIBase,
		Validate:    validateAPIBase,
	})
	return s, err
}

func requireAPIKey(existing string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" && existing == "" {
			return errAPIKeyRequired
		}
		return nil
	}
}

func validateAPIBase(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q, expected http(s)://host[/path]", value)
	}
	return nil
}

func checkConnection(ctx context.Context, p initPrompter, model string) error {
	ok, err := p.Confirm(ctx, "Test the API connection now?")
	if err != nil || !ok {
		return err
	}

	p.StartSpinner("Testing the API connection")
	if err := testLLMConnection(ctx, model); err != nil {
		p.StopSpinner("")
		p.Notify(ui.LevelWarn, fmt.Sprintf("Connection test failed: %v", err))
		p.Notify(ui.LevelInfo, "Re-run `gitmsg init` or update the backend with `gitmsg config set`.")
		return nil
	}
	p.StopSpinner(ui.Format(ui.LevelSuccess, "Connection test succeeded"))
	return nil
}

// ensureLLMConfigured offers the wizard when no API key is set. It reports
// whether the commit flow can go on.
func ensureLLMConfigured(
	ctx context.Context, cfg *config.Config, p initPrompter,
	wizard func(context.Context, initPrompter, *config.Config) error,
) (bool, error) {
	if strings.TrimSpace(cfg.APIKey) != "" {
		return true, nil
	}

	p.Notify(ui.LevelWarn, "API key is not configured, it is required to generate commit messages")
	ok, err := p.Confirm(ctx, "Run `gitmsg init` now?")
	if err != nil {
		return false, err
	}
	if !ok {
		p.Notify(ui.LevelInfo, skipInitHint)
		return false, nil
	}
	if err := wizard(ctx, p, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// promptFailure gives wizard prompt errors the exit semantics of the commit
// flow. Other errors pass through.
func promptFailure(w io.Writer, err error) error {
	status := workflow.StatusFailed
	switch {
	case errors.Is(err, ui.ErrCancelled):
		status = workflow.StatusCancelled
		fmt.Fprintln(w, ui.Format(ui.LevelWarn, "Operation cancelled"))
	case errors.Is(err, ui.ErrNotInteractive):
		fmt.Fprintln(w, ui.Format(ui.LevelError, err.Error()))
		fmt.Fprintln(w, "Hint: "+skipInitHint)
	default:
		return err
	}
	result := workflow.Result{Status: status, Err: err, Stage: stageInit}
	return &ExitError{Code: result.ExitCode(), Result: result}
}
