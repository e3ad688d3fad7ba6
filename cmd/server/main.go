package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/handlers"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	base := logger.Base(log)

	if err := cfg.Validate(); err != nil {
		base.WithError(err).Fatal("invalid configuration")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		base.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		base.WithError(err).Fatal("failed to run migrations")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		base.WithError(err).Fatal("failed to create session store")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.SecurityHeaders(cfg.IsProduction()),
		gin.Recovery(),
		sessions.Sessions(constants.SessionCookieName, store),
	)

	// The AI drafter stays a nil interface when no key is configured
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		base.Warn("OPENAI_API_KEY not set, task drafting is disabled")
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, services.NewBcryptHasher(cfg.BcryptCost))
	taskService := services.NewTaskService(taskRepo, userRepo, drafter)

	r.GET("/metrics", middleware.MetricsHandler())
	handlers.RegisterRoutes(r, handlers.NewAuthHandler(authService), handlers.NewTaskHandler(taskService))

	base.WithFields(logrus.Fields{
		"port":          cfg.Port,
		"db_driver":     cfg.DBDriver,
		"session_store": cfg.SessionStore,
	}).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		base.WithError(err).Fatal("failed to start server")
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		return redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
	}
	return cookie.NewStore([]byte(cfg.SessionSecret)), nil
}
