package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/config"
	"github.com/lightlog-app/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.DiaryEntry{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		ChatModel:        "gpt-4o-mini",
		WhisperModel:     "whisper-1",
		WhisperLanguage:  "en",
		AITimeout:        5 * time.Second,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Password: "irrelevant",
		Nickname: username + "-nick",
		AITone:   models.ToneCounselor,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
