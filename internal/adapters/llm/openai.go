package llm

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/metrics"
)

const (
	DefaultOpenAIURL   = "https://api.openai.com/v1"
	DefaultOpenAIModel = "gpt-4o-mini"

	opOpenAI = "openai.complete"
)

// OpenAIAdapter implements ports.TextGenerator using the chat completions API.
type OpenAIAdapter struct {
	baseURL string
	apiKey  string
	opts    Options
	client  *http.Client
	retry   retrier
}

// NewOpenAIAdapter creates a new OpenAI chat completions adapter.
func NewOpenAIAdapter(baseURL, apiKey string, opts Options) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	opts = opts.withDefaults(DefaultOpenAIModel)
	return &OpenAIAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		opts:    opts,
		client:  &http.Client{},
		retry:   retrier{op: opOpenAI, timeout: opts.Timeout, maxRetries: opts.MaxRetries},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends prompt as the single user message and returns the reply text.
// An empty choice list is returned as "" so the caller can classify it.
func (a *OpenAIAdapter) Complete(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("openai", start, err) }()

	body, err := json.Marshal(openAIChatRequest{
		Model:          a.opts.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:      a.opts.MaxTokens,
		Temperature:    *a.opts.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", entities.NewError(entities.Unclassified, opOpenAI, "marshaling request", err)
	}

	return a.retry.do(ctx, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", entities.NewError(entities.Unclassified, opOpenAI, "creating request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if a.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+a.apiKey)
		}

		resp, err := a.client.Do(req)
		if err != nil {
			return "", classifyTransport(opOpenAI, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", classifyStatus(opOpenAI, resp)
		}

		var chat openAIChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
			if isTimeout(err) {
				return "", classifyTransport(opOpenAI, err)
			}
			return "", entities.NewError(entities.MalformedUpstreamOutput, opOpenAI, "decoding completion envelope", err)
		}
		if len(chat.Choices) == 0 {
			return "", nil
		}
		return chat.Choices[0].Message.Content, nil
	})
}
