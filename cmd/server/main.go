//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs

package main

import (
	"context"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"

	"evalportal/internal/auth"
	"evalportal/internal/cache"
	"evalportal/internal/config"
	"evalportal/internal/db"
	"evalportal/internal/handler"
	"evalportal/internal/logger"
	"evalportal/internal/repository"
	"evalportal/internal/router"
	"evalportal/internal/service"
)

// @title Project Evaluation Portal API
// @version 1.0
// @description Students score projects from 1 to 10; administrators review statistics and export the evaluation log.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "json").WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn("JWT_SECRET not set, signing sessions with the development secret")
	}

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables...")
		db.DropAll(gormDB, log)
		log.Info("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("redis unavailable, logged-out sessions cannot be revoked")
	}
	cancel()

	exportLoc, err := time.LoadLocation(cfg.ExportTimezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.ExportTimezone).Warn("unknown export timezone, using UTC")
		exportLoc = time.UTC
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	evaluationRepo := repository.NewEvaluationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := auth.NewSessionManager(jwtService, tokenStore, cfg.IsProduction())

	// Initialize services
	authService, err := service.NewAuthService(userRepo, service.AdminCredentials{
		Name:      cfg.AdminName,
		Password:  cfg.AdminPassword,
		StudentID: cfg.AdminStudentID,
	})
	if err != nil {
		log.WithError(err).Fatal("auth service init")
	}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is empty, administrator login is disabled")
	}
	projectService := service.NewProjectService(projectRepo)
	evaluationService := service.NewEvaluationService(projectRepo, evaluationRepo)
	statsService := service.NewStatsService(userRepo, projectRepo, evaluationRepo)
	exportService := service.NewExportService(evaluationRepo, exportLoc)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions, log)
	projectHandler := handler.NewProjectHandler(projectService, sessions)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, sessions)
	adminHandler := handler.NewAdminHandler(statsService, exportService)
	pageHandler := handler.NewPageHandler(cfg.WebDir)

	// Register routes
	router.Register(
		e,
		cfg,
		log,
		sessions,
		authHandler,
		projectHandler,
		evaluationHandler,
		adminHandler,
		pageHandler,
	)

	log.Infof("Swagger documentation available at: %s", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server start")
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	// SwaggerHost may already include the scheme
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
