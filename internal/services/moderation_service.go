package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/lightlog-app/backend/internal/config"
)

// ModerationService proxies the OpenAI moderation endpoint. A failure of the
// endpoint itself is treated as safe content (fail-open): blocking every user
// because the moderation API is down is worse than letting text through.
// Flagged content still blocks.
type ModerationService struct {
	endpoint string
	apiKey   string
	client   *resty.Client
}

type moderationRequest struct {
	Input string `json:"input"`
}

type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

type moderationResponse struct {
	Results []ModerationResult `json:"results"`
}

func NewModerationService(cfg *config.Config) *ModerationService {
	return &ModerationService{
		endpoint: cfg.ModerationEndpoint,
		apiKey:   cfg.OpenAIAPIKey,
		client:   resty.New().SetTimeout(cfg.AITimeout),
	}
}

func (s *ModerationService) CheckContent(content string) (*ModerationResult, error) {
	var parsed moderationResponse

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(s.apiKey).
		SetBody(moderationRequest{Input: content}).
		SetResult(&parsed).
		Post(s.endpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("moderation API returned status %d", resp.StatusCode())
	}
	if len(parsed.Results) == 0 {
		return nil, errors.New("empty response from moderation API")
	}

	return &parsed.Results[0], nil
}

// IsContentSafe reports whether content may proceed to generation.
func (s *ModerationService) IsContentSafe(content string) bool {
	result, err := s.CheckContent(content)
	if err != nil {
		slog.Error("moderation check failed, allowing content", "error", err)
		return true
	}
	return !result.Flagged
}
