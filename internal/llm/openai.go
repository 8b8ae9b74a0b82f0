package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/proppulse/proppulse/internal/model"
)

// OpenAICommentator enhances the deterministic commentary with a model's
// narrative. The recommendation always comes from the metrics ladder; the
// model contributes insight text, never the call.
type OpenAICommentator struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAICommentator creates an OpenAI-backed commentator
func NewOpenAICommentator(config model.LLMConfig) (*OpenAICommentator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAICommentator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the commentator name
func (c *OpenAICommentator) Name() string { return "openai" }

// modelCommentary is the JSON shape requested in the prompt
type modelCommentary struct {
	MarketInsight string   `json:"market_insight"`
	Strengths     []string `json:"strengths"`
	Concerns      []string `json:"concerns"`
	RiskNote      string   `json:"risk_note"`
}

// Comment generates commentary via the Chat Completions API, layered on the
// deterministic base.
func (c *OpenAICommentator) Comment(ctx context.Context, req CommentaryRequest) (*model.Commentary, error) {
	if req.Metrics == nil {
		return Fallback(req), nil
	}

	chatModel := c.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := c.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a commercial real-estate analyst. Respond only with the requested JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	var parsed modelCommentary
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("decode commentary: %w", err)
	}

	commentary := Fallback(req)
	commentary.Provider = c.Name()
	commentary.Model = chatModel
	if parsed.MarketInsight != "" {
		commentary.MarketInsight = parsed.MarketInsight
	}
	if len(parsed.Strengths) > 0 {
		commentary.Strengths = parsed.Strengths
	}
	if len(parsed.Concerns) > 0 {
		commentary.Concerns = parsed.Concerns
	}
	if parsed.RiskNote != "" {
		commentary.RiskNote = parsed.RiskNote
	}
	return commentary, nil
}

// extractJSON trims markdown fences models sometimes wrap around JSON
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var _ Commentator = (*OpenAICommentator)(nil)
