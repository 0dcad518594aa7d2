package openai

import (
	"context"
	"fmt"

	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	openailib "github.com/sashabaranov/go-openai"
)

// Turn is one role-tagged unit of conversational text.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = openailib.ChatMessageRoleSystem
	RoleUser      = openailib.ChatMessageRoleUser
	RoleAssistant = openailib.ChatMessageRoleAssistant
)

// Completion is the generated turn returned by the completion endpoint.
type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

// CompleteOptions override the configured sampling defaults for one call.
type CompleteOptions struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Client wraps the OpenAI completion and moderation endpoints.
type Client struct {
	api *openailib.Client
	cfg config.OpenAIConfig
}

// New constructs a client from the provided configuration.
func New(cfg config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	apiCfg := openailib.DefaultConfig(cfg.APIKey)
	return &Client{
		api: openailib.NewClientWithConfig(apiCfg),
		cfg: cfg,
	}, nil
}

// Complete submits the ordered turn list and returns the single generated turn.
func (c *Client) Complete(ctx context.Context, turns []Turn, opts *CompleteOptions) (*Completion, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("at least one turn is required")
	}

	model := c.cfg.Model
	temperature := c.cfg.Temperature
	maxTokens := c.cfg.MaxTokens
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		if opts.Temperature != nil {
			temperature = *opts.Temperature
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
	}

	messages := make([]openailib.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openailib.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openailib.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Completion{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// Moderate classifies content against the moderation endpoint and reports
// whether it was flagged.
func (c *Client) Moderate(ctx context.Context, content string) (bool, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.api.Moderations(ctx, openailib.ModerationRequest{Input: content})
	if err != nil {
		return false, fmt.Errorf("moderation: %w", err)
	}
	if len(resp.Results) == 0 {
		return false, nil
	}
	return resp.Results[0].Flagged, nil
}
