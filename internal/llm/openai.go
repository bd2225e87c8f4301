// Package llm wraps the OpenAI-compatible chat completions API used for
// intent extraction and answer synthesis.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Client calls the chat completions endpoint with a fixed model.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a chat client. baseURL may be empty for the public API.
func New(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete runs one chat completion and returns the assistant text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, nil)
}

// CompleteJSON runs one chat completion in JSON mode; the assistant is
// constrained to reply with a single JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	return c.complete(ctx, system, user, format)
}

func (c *Client) complete(
	ctx context.Context, system, user string,
	format *openai.ChatCompletionResponseFormat,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: format,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrUpstream)
	}
	return fmt.Errorf("chat request failed: %v: %w", err, domain.ErrUpstream)
}
