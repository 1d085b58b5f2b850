// @title StoryBuddy API
// @version 1.0
// @description Story telling, quiz generation and explanations for children, backed by a generative language model.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:5000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"storybuddy/internal/adapter"
	"storybuddy/internal/adapter/llm"
	"storybuddy/internal/cache"
	"storybuddy/internal/config"
	"storybuddy/internal/domain"
	"storybuddy/internal/handler"
	"storybuddy/internal/img"
	"storybuddy/internal/logger"
	"storybuddy/internal/middleware"
	"storybuddy/internal/service"
	"storybuddy/internal/validation"
	"strconv"
	"syscall"
	"time"

	_ "storybuddy/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// newApp builds the fiber app with middleware and routes. responseCache may be nil.
func newApp(cfg *config.Config, generationService service.GenerationService, responseCache domain.Cache) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.CORS(cfg.CORS))
	app.Use(middleware.SecureHeaders())
	if limit := middleware.RateLimit(cfg.RateLimit); limit != nil {
		app.Use(limit)
	}

	generationHandler := handler.NewGenerationHandler(generationService, validation.NewValidator(img.Limits{MaxWidth: cfg.Image.MaxWidth, MaxPixels: cfg.Image.MaxPixels}))
	healthHandler := handler.NewHealthHandler(responseCache)

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", healthHandler.Health)

	app.Post("/StoryTeller", generationHandler.StoryTeller)
	app.Post("/QuizBot", generationHandler.QuizBot)
	app.Post("/LearnBot", generationHandler.LearnBot)

	return app
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	model, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create language model", zap.Error(err), zap.String("provider", cfg.LLM.Provider))
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}
	appLogger.Info("Language model initialized",
		zap.String("provider", model.Name()),
		zap.String("model", cfg.LLM.Model),
		zap.Float64("rps", cfg.LLM.RPS))

	// Response cache is optional; the service runs without Redis.
	var responseCache domain.Cache
	if cfg.Cache.Enabled(cfg.Redis) {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redisClient.Close()
		responseCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Response cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Cache.TTL))
	}

	generationCache := service.NewGenerationCacheService(responseCache, cfg.Cache.TTL)
	generationService := service.NewGenerationService(model, generationCache)

	app := newApp(cfg, generationService, responseCache)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
