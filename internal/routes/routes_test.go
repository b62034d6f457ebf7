package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lightlog-app/backend/internal/config"
	"github.com/lightlog-app/backend/internal/database"
	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/handlers"
	"github.com/lightlog-app/backend/internal/models"
	"github.com/lightlog-app/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) *fiber.App {
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
	database.DB = db

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		AITimeout:        time.Second,
	}

	prompts, err := services.LoadPrompts("")
	require.NoError(t, err)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	diaryService := services.NewDiaryService(db)
	moderationService := services.NewModerationService(cfg)
	aiService := services.NewAIService(db, cfg, moderationService, prompts)
	voiceService := services.NewVoiceService(cfg, moderationService)

	app := fiber.New()
	Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		handlers.NewDiaryHandler(diaryService, userService),
		handlers.NewAIHandler(aiService),
		handlers.NewVoiceHandler(voiceService),
		handlers.NewHealthHandler(),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, app *fiber.App, username string) dto.AuthResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: username,
		Password: "supersecret",
		Nickname: username + "-nick",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp)
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "up", health.DB)
}

func TestAuthFlow(t *testing.T) {
	app := setupTestApp(t)

	auth := registerUser(t, app, "flow-user")

	t.Run("login works with the registered password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
			Username: "flow-user",
			Password: "supersecret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad password is a client error", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
			Username: "flow-user",
			Password: "wrongwrong",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{
			RefreshToken: auth.RefreshToken,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rotated := decode[dto.AuthResponse](t, resp)
		assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)
	})

	t.Run("username availability", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/auth/check-username?username=flow-user", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		check := decode[dto.AvailabilityResponse](t, resp)
		assert.False(t, check.Available)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupTestApp(t)

	for _, path := range []string{"/api/users/profile", "/api/diaries/", "/api/diaries/statistics"} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)
	}
}

func TestDiaryEndpoints(t *testing.T) {
	app := setupTestApp(t)
	auth := registerUser(t, app, "diarist")

	t.Run("create and list by date", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/diaries/", auth.AccessToken, dto.CreateDiaryRequest{
			Content: "wrote some Go",
			Date:    "2026-09-01",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/diaries/?date=2026-09-01", auth.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		entries := decode[[]dto.DiaryResponse](t, resp)
		require.Len(t, entries, 1)
		assert.Equal(t, "wrote some Go", entries[0].Content)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/diaries/", auth.AccessToken, dto.CreateDiaryRequest{
			Content: "bad date",
			Date:    "09/01/2026",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("updating another user's entry is rejected", func(t *testing.T) {
		other := registerUser(t, app, "intruder")

		resp := doJSON(t, app, http.MethodPost, "/api/diaries/", auth.AccessToken, dto.CreateDiaryRequest{
			Content: "mine",
			Date:    "2026-09-02",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		entry := decode[dto.DiaryResponse](t, resp)

		resp = doJSON(t, app, http.MethodPut, "/api/diaries/"+entry.ID.String(), other.AccessToken, dto.UpdateDiaryRequest{
			Content: "stolen",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("statistics shape", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/diaries/statistics", auth.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		stats := decode[dto.DiaryStatistics](t, resp)
		assert.Len(t, stats.MonthlyStats, 12)
		assert.Len(t, stats.RecentDays, 30)
	})

	t.Run("export and re-import round trip", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/diaries/export", auth.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		export := decode[dto.DataExportResponse](t, resp)
		require.NotEmpty(t, export.Diaries)

		imports := make([]dto.DiaryImport, 0, len(export.Diaries))
		for _, d := range export.Diaries {
			imports = append(imports, dto.DiaryImport{Content: d.Content, Date: d.Date})
		}
		resp = doJSON(t, app, http.MethodPost, "/api/diaries/import", auth.AccessToken, dto.DataImportRequest{
			Diaries: imports,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[dto.ImportResult](t, resp)
		assert.Equal(t, len(imports), result.Skipped)
		assert.Zero(t, result.Imported)
	})
}

func TestToneEndpoints(t *testing.T) {
	app := setupTestApp(t)
	auth := registerUser(t, app, "tonal")

	resp := doJSON(t, app, http.MethodGet, "/api/users/ai-tones", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	catalog := decode[dto.ToneCatalogResponse](t, resp)
	assert.Len(t, catalog.Tones, 2)

	resp = doJSON(t, app, http.MethodPut, "/api/users/ai-tone", auth.AccessToken, dto.UpdateToneRequest{
		AITone: models.ToneFriend,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A second change on the same day is rejected.
	resp = doJSON(t, app, http.MethodPut, "/api/users/ai-tone", auth.AccessToken, dto.UpdateToneRequest{
		AITone: models.ToneCounselor,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoiceSupportedFormats(t *testing.T) {
	app := setupTestApp(t)
	auth := registerUser(t, app, "speaker")

	resp := doJSON(t, app, http.MethodGet, "/api/voice/supported-formats", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	formats := decode[dto.SupportedFormatsResponse](t, resp)
	assert.Contains(t, formats.SupportedFormats, "mp3")
}
