package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const maxSummaryTokens = 1024

// OpenAISummarizer implements SummaryProvider against the OpenAI chat
// completion API.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer returns nil when no API key is configured; the
// decision service treats a nil provider as "synthesis unavailable".
func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	if apiKey == "" {
		return nil
	}
	return &OpenAISummarizer{client: openai.NewClient(apiKey), model: model}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	model := s.model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummarySystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxSummaryTokens
	} else {
		req.MaxTokens = maxSummaryTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return text, nil
}
