package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"talentmatch/cv-pipeline/internal/config"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterService is an alternative TextGenerator over the OpenRouter
// chat-completions API, for deployments without a Gemini key. The provider is
// chosen once at startup, never switched mid-pipeline. Like GeminiService,
// every call carries its own timeout.
type OpenRouterService interface {
	TextGenerator
}

type openRouterService struct {
	client      *resty.Client
	apiKey      string
	model       string
	endpoint    string
	callTimeout time.Duration
}

func NewOpenRouterService(cfg config.OpenRouterConfig, callTimeout time.Duration) (OpenRouterService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}

	return &openRouterService{
		client:      resty.New(),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		endpoint:    openRouterEndpoint,
		callTimeout: callTimeout,
	}, nil
}

// GenerateText implements TextGenerator.
func (s *openRouterService) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	resp, err := s.client.R().
		SetContext(timeoutCtx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": prompt},
			},
			"temperature": 0.1,
		}).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), resp.String())
	}

	content := gjson.Get(resp.String(), "choices.0.message.content").String()
	if content == "" {
		return "", fmt.Errorf("no response content from model")
	}

	return content, nil
}
