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
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"

	opOllama = "ollama.complete"
)

// OllamaLLMAdapter implements ports.TextGenerator using Ollama's chat API.
type OllamaLLMAdapter struct {
	baseURL string
	opts    Options
	client  *http.Client
	retry   retrier
}

// NewOllamaLLMAdapter creates a new Ollama adapter.
func NewOllamaLLMAdapter(baseURL string, opts Options) *OllamaLLMAdapter {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	opts = opts.withDefaults(DefaultOllamaModel)
	return &OllamaLLMAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
		client:  &http.Client{},
		retry:   retrier{op: opOllama, timeout: opts.Timeout, maxRetries: opts.MaxRetries},
	}
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete sends prompt as the single user message and returns the reply text.
func (a *OllamaLLMAdapter) Complete(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("ollama", start, err) }()

	body, err := json.Marshal(ollamaChatRequest{
		Model:    a.opts.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   "json",
		Options: ollamaOptions{
			Temperature: *a.opts.Temperature,
			NumPredict:  a.opts.MaxTokens,
		},
	})
	if err != nil {
		return "", entities.NewError(entities.Unclassified, opOllama, "marshaling request", err)
	}

	return a.retry.do(ctx, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(body))
		if err != nil {
			return "", entities.NewError(entities.Unclassified, opOllama, "creating request", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return "", classifyTransport(opOllama, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", classifyStatus(opOllama, resp)
		}

		var chat ollamaChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
			if isTimeout(err) {
				return "", classifyTransport(opOllama, err)
			}
			return "", entities.NewError(entities.MalformedUpstreamOutput, opOllama, "decoding chat response", err)
		}
		return chat.Message.Content, nil
	})
}
