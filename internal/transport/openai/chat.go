package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/metrics"
)

// ChatMessage is a single chat turn passed to the scoring model.
type ChatMessage struct {
	Role    string
	Content string
}

// Chat roles.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// ChatClient calls the OpenAI-compatible chat completion API. The scorer
// treats the model as an untyped text channel: this client returns the raw
// completion and leaves structure validation to the caller.
type ChatClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// ChatConfig holds the scoring model settings.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewChatClient creates an OpenAI-compatible chat completion client.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &ChatClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		logger:  cfg.Logger,
	}
}

// Complete sends the message turns and returns the model's raw text output.
// Temperature 0 keeps the structured output as stable as the model allows.
func (c *ChatClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	llmMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		llmMessages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    llmMessages,
		Temperature: 0,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ScoringRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError("chat completion", err, domain.ErrScorer)
	}

	if len(resp.Choices) == 0 {
		metrics.ScoringRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrScorer)
	}

	metrics.ScoringRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.ScoringRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.Duration("latency", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
