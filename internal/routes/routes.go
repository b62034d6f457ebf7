package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lightlog-app/backend/internal/config"
	"github.com/lightlog-app/backend/internal/handlers"
	"github.com/lightlog-app/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	diaryHandler *handlers.DiaryHandler,
	aiHandler *handlers.AIHandler,
	voiceHandler *handlers.VoiceHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/check-username", authHandler.CheckUsername)
	auth.Get("/check-nickname", authHandler.CheckNickname)

	// Apply JWT middleware per-route so it never touches public routes.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	users := api.Group("/users", middleware.JWTProtected(cfg))
	users.Get("/profile", userHandler.GetProfile)
	users.Get("/ai-tones", userHandler.GetToneCatalog)
	users.Put("/ai-tone", userHandler.UpdateTone)

	diaries := api.Group("/diaries", middleware.JWTProtected(cfg))
	diaries.Post("/", diaryHandler.Create)
	diaries.Get("/", diaryHandler.List)
	// Specific paths must be registered before the /:id parameter route.
	diaries.Get("/search", diaryHandler.Search)
	diaries.Get("/past", diaryHandler.Past)
	diaries.Get("/statistics", diaryHandler.Statistics)
	diaries.Get("/export", diaryHandler.Export)
	diaries.Post("/import", diaryHandler.Import)
	diaries.Post("/summary", aiHandler.ChecklistSummary)
	diaries.Post("/positive-reinterpretation", aiHandler.PositiveReinterpretation)
	diaries.Post("/daily-feedback", aiHandler.DailyFeedback)
	diaries.Put("/:id", diaryHandler.Update)

	voice := api.Group("/voice", middleware.JWTProtected(cfg))
	voice.Post("/upload", voiceHandler.Upload)
	voice.Get("/supported-formats", voiceHandler.SupportedFormats)
}
