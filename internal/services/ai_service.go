package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/config"
	"github.com/lightlog-app/backend/internal/database"
	"github.com/lightlog-app/backend/internal/models"
	"gorm.io/gorm"
)

var ErrContentInappropriate = errors.New("content contains inappropriate language")

const (
	chatMaxTokens   = 500
	chatTemperature = 0.7
)

// GenerateSource records where a generated text came from.
type GenerateSource string

const (
	SourceModel    GenerateSource = "model"
	SourceFallback GenerateSource = "fallback"
)

// GenerateOutcome is the explicit result of a generation request: either
// model output or a hand-authored fallback. Moderation-blocked input is an
// error, never an outcome.
type GenerateOutcome struct {
	Text   string
	Source GenerateSource
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AIService turns journal data into tone-styled text via a chat completion
// endpoint, gated by a moderation pre-check. Stateless per request: no
// caching, no retries beyond the single fallback.
type AIService struct {
	db         *gorm.DB
	cfg        *config.Config
	moderation *ModerationService
	prompts    *PromptCatalog
	client     *resty.Client
}

func NewAIService(db *gorm.DB, cfg *config.Config, moderation *ModerationService, prompts *PromptCatalog) *AIService {
	return &AIService{
		db:         db,
		cfg:        cfg,
		moderation: moderation,
		prompts:    prompts,
		client:     resty.New().SetTimeout(cfg.AITimeout),
	}
}

// ChecklistSummary turns a day's activity list into an encouraging summary.
func (s *AIService) ChecklistSummary(userID uuid.UUID, activities []string, date time.Time) (*GenerateOutcome, error) {
	joined := strings.Join(activities, ", ")
	if joined != "" && !s.moderation.IsContentSafe(joined) {
		return nil, ErrContentInappropriate
	}

	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	tp := s.prompts.For(user.AITone)
	prompt := fmt.Sprintf("Today's date: %s\nToday's activities: %s\n\n%s",
		date.Format("2006-01-02"), joined, tp.ChecklistSummary)

	text, err := s.complete(tp.System, prompt)
	if err != nil {
		slog.Error("checklist summary generation failed", "error", err, "user_id", userID.String())
		return &GenerateOutcome{Text: fallbackSummary(activities), Source: SourceFallback}, nil
	}
	return &GenerateOutcome{Text: text, Source: SourceModel}, nil
}

// PositiveReinterpretation reframes a diary entry in a positive light.
func (s *AIService) PositiveReinterpretation(userID uuid.UUID, diaryContent string, date time.Time) (*GenerateOutcome, error) {
	if !s.moderation.IsContentSafe(diaryContent) {
		return nil, ErrContentInappropriate
	}

	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	tp := s.prompts.For(user.AITone)
	prompt := fmt.Sprintf("Today's date: %s\nDiary entry: %s\n\n%s",
		date.Format("2006-01-02"), diaryContent, tp.PositiveReinterpretation)

	text, err := s.complete(tp.System, prompt)
	if err != nil {
		slog.Error("positive reinterpretation generation failed", "error", err, "user_id", userID.String())
		return &GenerateOutcome{Text: reinterpretationFallback(user.AITone), Source: SourceFallback}, nil
	}
	return &GenerateOutcome{Text: text, Source: SourceModel}, nil
}

// DailyFeedback responds to everything the user wrote on a date. When the
// day has no entries the model is not called at all.
func (s *AIService) DailyFeedback(userID uuid.UUID, date time.Time) (*GenerateOutcome, error) {
	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	var entries []models.DiaryEntry
	if err := s.db.Scopes(database.ForUser(userID)).
		Where("date = ?", dateOf(date)).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return &GenerateOutcome{Text: noDiaryMessage(user.AITone), Source: SourceFallback}, nil
	}

	contents := make([]string, 0, len(entries))
	for _, e := range entries {
		contents = append(contents, e.Content)
	}
	diaryContent := strings.Join(contents, "\n\n")

	if !s.moderation.IsContentSafe(diaryContent) {
		return nil, ErrContentInappropriate
	}

	tp := s.prompts.For(user.AITone)
	prompt := fmt.Sprintf("Today's date: %s\nToday's diary:\n%s\n\n%s",
		date.Format("2006-01-02"), diaryContent, tp.DailyFeedback)

	text, err := s.complete(tp.System, prompt)
	if err != nil {
		slog.Error("daily feedback generation failed", "error", err, "user_id", userID.String())
		return &GenerateOutcome{Text: feedbackFallback(user.AITone), Source: SourceFallback}, nil
	}
	return &GenerateOutcome{Text: text, Source: SourceModel}, nil
}

func (s *AIService) complete(systemPrompt, userPrompt string) (string, error) {
	var parsed chatResponse

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(s.cfg.OpenAIAPIKey).
		SetBody(chatRequest{
			Model: s.cfg.ChatModel,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
			MaxTokens:   chatMaxTokens,
			Temperature: chatTemperature,
		}).
		SetResult(&parsed).
		Post(s.cfg.ChatEndpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat API returned status %d", resp.StatusCode())
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty response from chat API")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("blank completion from chat API")
	}
	return text, nil
}

func (s *AIService) getUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// fallbackSummary varies with how much the user got done.
func fallbackSummary(activities []string) string {
	switch {
	case len(activities) == 0:
		return "A calm day without much on the list — and that is perfectly fine. Rest counts too."
	case len(activities) == 1:
		return fmt.Sprintf("You spent the day on %s — a meaningful way to use your time! 🌟", activities[0])
	case len(activities) <= 3:
		return fmt.Sprintf("You got through %s today. A well-spent day! ✨", strings.Join(activities, ", "))
	default:
		return fmt.Sprintf("What a full day! %s and more — that's a lot of ground covered. 🎉",
			strings.Join(activities[:3], ", "))
	}
}

func reinterpretationFallback(tone string) string {
	if tone == models.ToneFriend {
		return "Honestly? Everything you went through today taught you something. You're doing better than you think! ✨"
	}
	return "Every experience from today carries meaning of its own. The way you keep growing, day by day, is truly admirable. ✨"
}

func feedbackFallback(tone string) string {
	if tone == models.ToneFriend {
		return "You really worked hard today! Seeing you keep at it is honestly inspiring. Let's crush it again tomorrow! 💪"
	}
	return "You did well today. Small efforts like these add up to real growth over time. I'll be cheering you on tomorrow as well. ✨"
}

func noDiaryMessage(tone string) string {
	if tone == models.ToneFriend {
		return "Oh, no entry today! That's okay — everyone needs a break sometimes. Tomorrow's a brand new day, let's take it easy! 😊"
	}
	return "You didn't write an entry today, and that is alright. Rest is part of the process. Tomorrow brings a fresh start. 🌅"
}
