package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

const (
	openAIMaxRetries = 3
	openAIBaseDelay  = 2 * time.Second
)

// chatGenerator is the part of an eino chat model the client needs.
type chatGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// OpenAIClient completes prompts through any OpenAI-compatible endpoint.
// Requests share one rate limiter and are retried with backoff on 429s.
type OpenAIClient struct {
	chat      chatGenerator
	limiter   *rate.Limiter
	timeout   time.Duration
	baseDelay time.Duration
}

func NewOpenAIClient(ctx context.Context, baseURL, apiKey, modelName string, requestsPerMinute int, timeout time.Duration) (*OpenAIClient, error) {
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return newOpenAIClient(chat, requestsPerMinute, timeout), nil
}

func newOpenAIClient(chat chatGenerator, requestsPerMinute int, timeout time.Duration) *OpenAIClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &OpenAIClient{
		chat:      chat,
		limiter:   rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		timeout:   timeout,
		baseDelay: openAIBaseDelay,
	}
}

func (c *OpenAIClient) GenerateCompletion(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	system := "You are a market analyst."
	if jsonMode {
		system = "You are a JSON generator. Output only a JSON object, without markdown."
	}
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: prompt},
	}

	var lastErr error
	for i := 0; i <= openAIMaxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := c.generate(ctx, messages)
		if err == nil {
			return resp.Content, nil
		}
		if !isRateLimited(err) {
			return "", fmt.Errorf("openai completion: %w", err)
		}
		lastErr = err
		if i < openAIMaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.baseDelay * time.Duration(1<<i)):
			}
		}
	}
	return "", fmt.Errorf("openai completion: rate limited after %d retries: %w", openAIMaxRetries, lastErr)
}

func (c *OpenAIClient) generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.chat.Generate(ctx, messages)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
