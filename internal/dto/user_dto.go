package dto

import "time"

type UserProfileResponse struct {
	Username           string    `json:"username"`
	Nickname           string    `json:"nickname"`
	AITone             string    `json:"ai_tone"`
	CanChangeToneToday bool      `json:"can_change_tone_today"`
	CreatedAt          time.Time `json:"created_at"`
}

type UpdateToneRequest struct {
	AITone string `json:"ai_tone"`
}

type ToneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type ToneCatalogResponse struct {
	Tones   []ToneInfo `json:"tones"`
	Current string     `json:"current"`
}
