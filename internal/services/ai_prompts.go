package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/lightlog-app/backend/internal/models"
)

// TonePrompts holds the prompt templates for one AI tone.
type TonePrompts struct {
	System                   string `json:"system"`
	ChecklistSummary         string `json:"checklist_summary"`
	PositiveReinterpretation string `json:"positive_reinterpretation"`
	DailyFeedback            string `json:"daily_feedback"`
}

// PromptCatalog maps tones to their prompt templates. Built-in defaults can
// be overridden per tone from a JSON file.
type PromptCatalog struct {
	mu    sync.RWMutex
	tones map[string]TonePrompts
}

func DefaultPrompts() *PromptCatalog {
	return &PromptCatalog{
		tones: map[string]TonePrompts{
			models.ToneCounselor: {
				System:                   "You are a warm, professional counselor helping someone reflect on their day through journaling. Respond with empathy and gentle professional insight, in a few short sentences.",
				ChecklistSummary:         "Summarize the day described by these activities as an encouraging reflection. Acknowledge effort and suggest one gentle observation.",
				PositiveReinterpretation: "Reframe this diary entry in a positive light. Validate the feelings expressed, then point out strengths and growth visible in the entry.",
				DailyFeedback:            "Give thoughtful feedback on this diary entry. Acknowledge what the writer experienced and offer calm, supportive perspective.",
			},
			models.ToneFriend: {
				System:                   "You are the user's cheerful close friend reacting to their journal. Be casual, warm and encouraging, like a supportive text message. Keep it short.",
				ChecklistSummary:         "React to the day described by these activities the way an enthusiastic friend would. Celebrate what they got done.",
				PositiveReinterpretation: "Give this diary entry a positive spin the way a best friend would: empathetic, upbeat and a little playful.",
				DailyFeedback:            "React to this diary entry like a close friend checking in. Be warm, encouraging and informal.",
			},
		},
	}
}

// LoadPrompts returns the defaults, merged with per-tone overrides from the
// given JSON file when path is non-empty.
func LoadPrompts(path string) (*PromptCatalog, error) {
	catalog := DefaultPrompts()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var overrides map[string]TonePrompts
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	for tone, override := range overrides {
		if !models.ValidTone(tone) {
			return nil, fmt.Errorf("unknown tone %q in prompts file", tone)
		}
		base := catalog.tones[tone]
		if override.System != "" {
			base.System = override.System
		}
		if override.ChecklistSummary != "" {
			base.ChecklistSummary = override.ChecklistSummary
		}
		if override.PositiveReinterpretation != "" {
			base.PositiveReinterpretation = override.PositiveReinterpretation
		}
		if override.DailyFeedback != "" {
			base.DailyFeedback = override.DailyFeedback
		}
		catalog.tones[tone] = base
	}
	return catalog, nil
}

// For returns the prompts for a tone, falling back to counselor for anything
// unrecognized.
func (p *PromptCatalog) For(tone string) TonePrompts {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if prompts, ok := p.tones[tone]; ok {
		return prompts
	}
	return p.tones[models.ToneCounselor]
}
