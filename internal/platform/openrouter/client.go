package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
)

// Defaults used when the configuration leaves them empty.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
)

const (
	providerName = "openrouter"
	referer      = "https://github.com/tarots-ai/tarots-api"
	title        = "Tarots AI"

	// maxResponseBody bounds how much of a response is read.
	maxResponseBody = 1 << 20
)

// Client implements interpretation.Interpreter via the OpenRouter API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	retry       interpretation.RetryPolicy
	logger      *slog.Logger
}

var _ interpretation.Interpreter = (*Client)(nil)

// NewClient creates an OpenRouter client from the LLM configuration. A nil
// httpClient gets one with the configured timeout.
func NewClient(httpClient *http.Client, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openrouter API key cannot be empty", interpretation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		httpClient:  httpClient,
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: cfg.Temperature,
		retry: interpretation.RetryPolicy{
			MaxRetries: retries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
		logger: logger.With(slog.String("component", "openrouter_client")),
	}, nil
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Interpret implements interpretation.Interpreter.
func (c *Client) Interpret(ctx context.Context, req interpretation.Request) (interpretation.Result, error) {
	if len(req.Messages) == 0 {
		return interpretation.Result{}, interpretation.ErrNoCards
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]chatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return interpretation.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	var text string
	err = interpretation.WithRetry(ctx, c.logger, c.retry, func(ctx context.Context) error {
		text, err = c.call(ctx, body)
		return err
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "openrouter interpretation failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return interpretation.Result{}, err
	}

	return interpretation.Result{Text: text, Model: model}, nil
}

func (c *Client) call(ctx context.Context, body []byte) (string, error) {
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", interpretation.ErrInvalidConfig, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", interpretation.ErrInterpretationFailed, ctxErr)
		}
		return "", fmt.Errorf("%w: http call: %w", interpretation.ErrInterpretationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", interpretation.ErrInterpretationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", interpretation.ErrEmptyResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", interpretation.ErrEmptyResponse)
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", interpretation.ErrEmptyResponse
	}
	return text, nil
}

// statusError prefers the provider's error.message, then the status text.
func statusError(resp *http.Response, body []byte) error {
	message := http.StatusText(resp.StatusCode)

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	return &interpretation.ProviderError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
