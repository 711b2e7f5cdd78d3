package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"google.golang.org/genai"
)

const providerName = "gemini"

// contentGenerator is the part of the genai client the interpreter uses.
// client.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Interpreter implements interpretation.Interpreter on the Gemini API.
type Interpreter struct {
	logger      *slog.Logger
	client      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	retry       interpretation.RetryPolicy
}

var _ interpretation.Interpreter = (*Interpreter)(nil)

// NewInterpreter creates a Gemini interpreter from the LLM configuration.
func NewInterpreter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Interpreter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini_interpreter"))

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			interpretation.ErrInvalidConfig, err)
	}

	return newInterpreter(logger, client.Models, cfg), nil
}

func newInterpreter(logger *slog.Logger, client contentGenerator, cfg config.LLMConfig) *Interpreter {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Interpreter{
		logger:      logger,
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		retry:       retryPolicy(cfg),
	}
}

// Interpret sends the prompt to Gemini and returns the concatenated text of
// the first candidate.
func (g *Interpreter) Interpret(ctx context.Context, req interpretation.Request) (interpretation.Result, error) {
	if len(req.Messages) == 0 {
		return interpretation.Result{}, interpretation.ErrNoCards
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents, genConfig := g.buildRequest(req.Messages)

	var text string
	err := interpretation.WithRetry(ctx, g.logger, g.retry, func(ctx context.Context) error {
		g.logger.DebugContext(ctx, "calling Gemini API", slog.String("model", model))

		resp, err := g.client.GenerateContent(ctx, model, contents, genConfig)
		if err != nil {
			return mapError(err)
		}
		text, err = extractText(resp)
		return err
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini interpretation failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return interpretation.Result{}, err
	}

	return interpretation.Result{Text: text, Model: model}, nil
}

func (g *Interpreter) buildRequest(messages []interpretation.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []*genai.Part
	var contents []*genai.Content
	for _, m := range messages {
		part := &genai.Part{Text: m.Content}
		if m.Role == interpretation.RoleSystem {
			system = append(system, part)
			continue
		}
		contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
	}

	temperature := g.temperature
	genConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(system) > 0 {
		genConfig.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, genConfig
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", interpretation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", interpretation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", interpretation.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", interpretation.ErrEmptyResponse
	}
	return text, nil
}

// mapError converts genai API errors into provider errors so that the retry
// policy can tell transient from permanent failures.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &interpretation.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return fmt.Errorf("%w: %w", interpretation.ErrInterpretationFailed, err)
}
