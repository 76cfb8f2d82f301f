package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samzong/gitmsg/internal/prompt"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	ErrEmptyResponse = errors.New("LLM returned empty response")
	ErrMissingAPIKey = errors.New("API key not set, please set the API key first: gitmsg config set api_key YOUR_API_KEY")
)

// ChatCompleter is the subset of the OpenAI client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Options struct {
	APIKey       string
	APIBase      string
	Model        string
	Timeout      time.Duration
	MaxDiffBytes int
	Logger       *zap.Logger
}

// Client generates commit messages from an assembled prompt sequence.
type Client struct {
	api  ChatCompleter
	opts Options
	log  *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.APIBase != "" {
		clientConfig.BaseURL = opts.APIBase
	}
	return NewClientWithAPI(openai.NewClientWithConfig(clientConfig), opts), nil
}

// NewClientWithAPI builds a Client on top of an existing completer.
func NewClientWithAPI(api ChatCompleter, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{api: api, opts: opts, log: log}
}

// Generate sends seq followed by diff and returns one candidate message.
// Diffs above the configured budget are split at file boundaries and the
// per-chunk answers are joined with a blank line.
func (c *Client) Generate(ctx context.Context, seq prompt.Sequence, diff string) (string, error) {
	chunks := SplitDiff(diff, c.opts.MaxDiffBytes)
	if len(chunks) > 1 {
		c.log.Debug("diff exceeds budget, generating per chunk",
			zap.Int("bytes", len(diff)), zap.Int("chunks", len(chunks)))
	}

	messages := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		msg, err := c.complete(ctx, prompt.WithDiff(seq, chunk))
		if err != nil {
			return "", err
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, "\n\n"), nil
}

// Complete sends seq as-is, without a trailing diff.
func (c *Client) Complete(ctx context.Context, seq prompt.Sequence) (string, error) {
	return c.complete(ctx, seq)
}

func (c *Client) complete(ctx context.Context, seq prompt.Sequence) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(seq))
	for _, m := range seq {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.opts.Model,
		Messages: messages,
	})
	c.log.Debug("chat completion finished",
		zap.String("model", c.opts.Model),
		zap.Int("messages", len(messages)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	if err != nil {
		return "", fmt.Errorf("failed to call LLM: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// TestConnection performs a minimal request to validate credentials.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.complete(ctx, prompt.Sequence{{Role: prompt.RoleUser, Content: "ping"}})
	return err
}
