package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/sucre-siip/sucre/pkg/formatting"
)

type gemini struct {
	client *genai.Client
	config *Config
	logger *slog.Logger
}

// NewGemini builds a Service backed by the Gemini API. The client is
// created eagerly so a bad key fails at startup rather than on the
// first user message.
func NewGemini(ctx context.Context, config *Config, logger *slog.Logger) (Service, error) {
	if config.ApiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})

	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &gemini{
		client: client,
		config: config,
		logger: logger.With("system", "llm"),
	}, nil
}

func (g *gemini) ExtractReportSpec(ctx context.Context, prompt string) (*ReportSpec, error) {
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	spec, err := formatting.Parse[ReportSpec](text)
	if err != nil {
		return nil, fmt.Errorf("parse report spec: %w", err)
	}

	return &spec, nil
}

func (g *gemini) GenerateReply(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt)
}

func (g *gemini) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		text, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err
		g.logger.Warn("llm call failed",
			"attempt", attempt,
			"model", g.config.Model,
			"error", err)

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func (g *gemini) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.config.TimeoutDuration())
	defer cancel()

	result, err := g.client.Models.GenerateContent(
		callCtx,
		g.config.Model,
		genai.Text(prompt),
		nil,
	)

	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
