package openrouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"search-agent/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

var _ llms.Model = (*Adapter)(nil)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Adapter serves langchaingo model calls from any OpenAI-compatible chat
// completions endpoint, OpenRouter by default.
type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: DefaultBaseURL,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var size int
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err == nil {
			size = len(body)
			req.Body = io.NopCloser(bytes.NewBuffer(body))
		}
	}

	t.logger.Debug("HTTP Request", "method", req.Method, "url", req.URL.String(), "bodyBytes", size)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Error("HTTP Request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}

	t.logger.Debug("HTTP Response", "status", resp.Status, "statusCode", resp.StatusCode)
	return resp, nil
}

func NewAdapter(cfg Config) *Adapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	if cfg.Logger != nil {
		config.HTTPClient = &http.Client{
			Transport: &loggingTransport{
				base:   http.DefaultTransport,
				logger: cfg.Logger,
			},
		}
	}

	return &Adapter{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (a *Adapter) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	model := a.model
	if opts.Model != "" {
		model = opts.Model
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    convertMessages(messages),
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return convertResponse(resp), nil
}

func (a *Adapter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, a, prompt, options...)
}

func convertMessages(messages []llms.MessageContent) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var content strings.Builder
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content.WriteString(text.Text)
			}
		}

		result = append(result, openai.ChatCompletionMessage{
			Role:    convertRole(msg.Role),
			Content: content.String(),
		})
	}
	return result
}

func convertRole(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return openai.ChatMessageRoleSystem
	case llms.ChatMessageTypeAI:
		return openai.ChatMessageRoleAssistant
	case llms.ChatMessageTypeTool:
		return openai.ChatMessageRoleTool
	default:
		return openai.ChatMessageRoleUser
	}
}

func convertResponse(resp openai.ChatCompletionResponse) *llms.ContentResponse {
	choices := make([]*llms.ContentChoice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"PromptTokens":     resp.Usage.PromptTokens,
				"CompletionTokens": resp.Usage.CompletionTokens,
				"TotalTokens":      resp.Usage.TotalTokens,
			},
		})
	}
	return &llms.ContentResponse{Choices: choices}
}
