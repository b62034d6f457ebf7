package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// OpenAI
	OpenAIAPIKey       string
	ChatEndpoint       string
	ChatModel          string
	ModerationEndpoint string
	WhisperEndpoint    string
	WhisperModel       string
	WhisperLanguage    string

	AITimeout time.Duration

	// Optional JSON file overriding the built-in tone prompts
	PromptsPath string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lightlog"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		ChatEndpoint:       getEnv("OPENAI_CHAT_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		ModerationEndpoint: getEnv("OPENAI_MODERATION_ENDPOINT", "https://api.openai.com/v1/moderations"),
		WhisperEndpoint:    getEnv("OPENAI_WHISPER_ENDPOINT", "https://api.openai.com/v1/audio/transcriptions"),
		WhisperModel:       getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
		WhisperLanguage:    getEnv("OPENAI_WHISPER_LANGUAGE", "en"),

		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "30s")),

		PromptsPath: getEnv("PROMPTS_PATH", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
