package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/SebasM79/gestion-academica/api/swagger"
	"github.com/SebasM79/gestion-academica/internal/handler"
	"github.com/SebasM79/gestion-academica/internal/middleware"
	"github.com/SebasM79/gestion-academica/internal/repository"
	"github.com/SebasM79/gestion-academica/internal/service"
	"github.com/SebasM79/gestion-academica/internal/session"
	"github.com/SebasM79/gestion-academica/pkg/cache"
	"github.com/SebasM79/gestion-academica/pkg/config"
	"github.com/SebasM79/gestion-academica/pkg/database"
	"github.com/SebasM79/gestion-academica/pkg/logger"
	corsmiddleware "github.com/SebasM79/gestion-academica/pkg/middleware/cors"
	reqidmiddleware "github.com/SebasM79/gestion-academica/pkg/middleware/requestid"
)

// @title Gestión Académica API
// @version 1.0.0
// @description Backend de gestión académica: carreras, materias, inscripciones y notas
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	sessions := session.NewStore(redisClient, cfg.Session.TTL)
	csrf := session.NewCSRF(cfg.CSRF.Secret, cfg.CSRF.TTL)

	usuarioRepo := repository.NewUsuarioRepository(db)
	alumnoRepo := repository.NewAlumnoRepository(db)
	personalRepo := repository.NewPersonalRepository(db)
	carreraRepo := repository.NewCarreraRepository(db)
	materiaRepo := repository.NewMateriaRepository(db)
	asignacionRepo := repository.NewAsignacionRepository(db)
	inscCarreraRepo := repository.NewInscripcionCarreraRepository(db)
	inscMateriaRepo := repository.NewInscripcionMateriaRepository(db)
	notaRepo := repository.NewNotaRepository(db)
	registroRepo := repository.NewRegistroRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, logr)
	authService := service.NewAuthService(usuarioRepo, alumnoRepo, personalRepo, sessions, validate, logr)
	registroService := service.NewRegistroService(registroRepo, carreraRepo, validate, logr)
	catalogoService := service.NewCatalogoService(carreraRepo, materiaRepo, logr)
	alumnoService := service.NewAlumnoService(alumnoRepo, carreraRepo, materiaRepo, notaRepo, inscMateriaRepo, metricsService, logr)
	docenteService := service.NewDocenteService(asignacionRepo, materiaRepo, notaRepo, alumnoRepo, validate, logr)
	adminService := service.NewAdminService(registroRepo, alumnoRepo, carreraRepo, materiaRepo, inscCarreraRepo, notaRepo, cacheService, cfg.Stats.CacheTTL, validate, logr)
	exportService := service.NewExportService(alumnoRepo, notaRepo, logr)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, csrf, cfg.Session, cfg.CSRF),
		Registro: handler.NewRegistroHandler(registroService),
		Catalogo: handler.NewCatalogoHandler(catalogoService),
		Alumno:   handler.NewAlumnoHandler(alumnoService),
		Docente:  handler.NewDocenteHandler(docenteService),
		Admin:    handler.NewAdminHandler(adminService, exportService),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	sessionMW := middleware.Session(sessions, authService, cfg.Session.CookieName)
	csrfMW := middleware.CSRF(csrf, cfg.CSRF.HeaderName)
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, sessionMW, csrfMW)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
