package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crackthecode/internal/config"
	"crackthecode/internal/db"
	"crackthecode/internal/domain"
	httpServer "crackthecode/internal/http"
	"crackthecode/internal/http/handlers"
	"crackthecode/internal/http/middleware"
	"crackthecode/internal/localstore"
	"crackthecode/internal/logger"
	"crackthecode/internal/quotes"
	"crackthecode/internal/repository"
	"crackthecode/internal/service"
	"crackthecode/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	// Инициализация структурированного логгера
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
		log.Info("migrations applied")
	}

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	// redis необязателен: без него лимитер и блокировка дня пропускают запросы
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, running without rate limit and daily lock", "addr", cfg.RedisAddr, "error", err)
	}
	cancelPing()

	auth := service.NewAuth(cfg.JWTSecret)
	if !auth.Enabled() {
		log.Warn("JWT_SECRET not set - all players are anonymous, results are not saved")
	}

	// Репозитории и сервисы
	phrases := repository.NewPhraseRepository(dbPool)
	if cfg.SeedTSV != "" {
		if err := seedPool(context.Background(), phrases, cfg.SeedTSV); err != nil {
			log.Error("seed phrase pool failed", "file", cfg.SeedTSV, "error", err)
		}
	}
	dailyRepo := repository.NewDailyRepository(dbPool)
	categories := service.NewCategoryService(repository.NewCategoryRepository(dbPool))
	hints := service.NewHintService(repository.NewHintRepository(dbPool))
	daily := service.NewDailyService(dailyRepo, quotes.NewClient(cfg.QuoteAPIURL), service.NewRedisLock(rdb))
	reporter := service.NewReporter(
		repository.NewScoreRepository(dbPool),
		daily,
		repository.NewStampRepository(dbPool),
	)
	play := service.NewPlayService(
		cfg.Engine,
		service.NewPoolSource(phrases),
		categories,
		daily,
		hints,
		reporter,
	)

	hub := ws.NewHub()
	hub.StartCleanup(time.Minute)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Routes{
		API: &handlers.Handler{
			Categories: categories,
			Hints:      hints,
			Daily:      daily,
			Scores:     reporter,
			Version:    Version,
		},
		WS:        ws.NewWSHandler(hub, play, auth, cfg.AllowedOrigin),
		Auth:      auth,
		RateLimit: middleware.RateLimit(middleware.NewRedisCounter(rdb), cfg.RateLimitPerMinute),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	// Сброс серий тех, кто пропустил фразу дня
	streaks := service.NewStreakResetter(dailyRepo, cfg.StreakCheckEvery)
	go streaks.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	streaks.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}
	// соединения ws не отслеживаются Shutdown, закрываем забеги явно
	hub.CloseAll()

	log.Info("server exited")
}

// seedPool заливает фразы из TSV, только если пул пуст
func seedPool(ctx context.Context, repo *repository.PhraseRepository, path string) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	rows, err := localstore.LoadTSV(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		rec := &domain.PhraseRecord{
			Sentence:        row.Sentence,
			Category:        row.Category,
			Hint:            row.Hint,
			RevealedLetters: []string{},
			LetterMap:       map[string]int{},
		}
		if rec.Category == "" {
			rec.Category = "General"
		}
		if err := repo.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	logger.Info("phrase pool seeded", "rows", len(rows))
	return nil
}
