package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ToneCounselor = "counselor"
	ToneFriend    = "friend"
)

// User owns diary entries and a selectable AI tone. The tone may change at
// most once per calendar day, tracked by LastToneChangeDate.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username           string         `gorm:"not null;size:50;uniqueIndex" json:"username"`
	Password           string         `gorm:"not null" json:"-"`
	Nickname           string         `gorm:"not null;size:50;uniqueIndex" json:"nickname"`
	AITone             string         `gorm:"size:20;default:'counselor'" json:"ai_tone"`
	LastToneChangeDate *time.Time     `gorm:"type:date" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidTone(tone string) bool {
	return tone == ToneCounselor || tone == ToneFriend
}
