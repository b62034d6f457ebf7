package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidTone        = errors.New("invalid AI tone, must be 'counselor' or 'friend'")
	ErrToneAlreadyChanged = errors.New("AI tone can only be changed once per day")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetProfile(userID uuid.UUID) (*dto.UserProfileResponse, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(user), nil
}

// UpdateTone switches the AI tone, rejecting a second change on the same
// calendar day.
func (s *UserService) UpdateTone(userID uuid.UUID, newTone string) (*dto.UserProfileResponse, error) {
	if !models.ValidTone(newTone) {
		return nil, ErrInvalidTone
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if !canChangeToneToday(user, time.Now().UTC()) {
		return nil, ErrToneAlreadyChanged
	}

	today := dateOf(time.Now().UTC())
	user.AITone = newTone
	user.LastToneChangeDate = &today
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	return s.profileOf(user), nil
}

func (s *UserService) ToneCatalog(userID uuid.UUID) (*dto.ToneCatalogResponse, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.ToneCatalogResponse{
		Tones: []dto.ToneInfo{
			{
				ID:          models.ToneCounselor,
				Name:        "Counselor",
				Description: "Warm, professional guidance from a counselor's perspective",
				Icon:        "🧠",
			},
			{
				ID:          models.ToneFriend,
				Name:        "Friend",
				Description: "Casual, upbeat encouragement from a close friend",
				Icon:        "😊",
			},
		},
		Current: user.AITone,
	}, nil
}

func (s *UserService) profileOf(user *models.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		Username:           user.Username,
		Nickname:           user.Nickname,
		AITone:             user.AITone,
		CanChangeToneToday: canChangeToneToday(user, time.Now().UTC()),
		CreatedAt:          user.CreatedAt,
	}
}

func canChangeToneToday(user *models.User, now time.Time) bool {
	if user.LastToneChangeDate == nil {
		return true
	}
	return !dateOf(*user.LastToneChangeDate).Equal(dateOf(now))
}
