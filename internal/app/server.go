// internal/app/server.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"scout-service/internal/config"
	"scout-service/internal/db"
	campaignHandler "scout-service/internal/handlers/campaign"
	quoteHandler "scout-service/internal/handlers/quote"
	rulesHandler "scout-service/internal/handlers/rules"
	wsHandler "scout-service/internal/handlers/websocket"
	"scout-service/internal/jobs"
	"scout-service/internal/middleware"
	"scout-service/internal/pkg/cache"
	"scout-service/internal/pkg/jwt"
	"scout-service/internal/pkg/ratelimit"
	"scout-service/internal/repository/postgres"
	campaignUsecase "scout-service/internal/service/campaign"
	quoteUsecase "scout-service/internal/service/quote"
	rulesUsecase "scout-service/internal/service/rules"
	"scout-service/internal/websocket"
	wsHandlers "scout-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	scheduler  *jobs.Scheduler
	stopHub    context.CancelFunc
	sqlDB      *sql.DB
	redis      *redis.Client
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Init connects the backing stores, wires the services and starts the
// background workers. Shutdown releases whatever Init acquired, even when
// Init fails part way.
func (s *Server) Init(ctx context.Context) error {
	logger := s.logger

	// ----- PostgreSQL -----
	sqlDB, err := postgres.ConnectDB(ctx, postgres.DBConfig{
		URL:             s.cfg.DatabaseURL,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.sqlDB = sqlDB
	logger.Info("connected to PostgreSQL")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redis = redisClient
	logger.Info("connected to Redis", zap.String("addr", s.cfg.RedisAddr))

	// ----- JWT -----
	verifier, err := jwt.LoadVerifier(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT verifier: %w", err)
	}

	// ----- Pricing defaults -----
	defaults, err := config.LoadPricingDefaults(s.cfg.PricingDefaultsPath)
	if err != nil {
		return fmt.Errorf("failed to load pricing defaults: %w", err)
	}

	// ----- Repositories -----
	campaignRepo := postgres.NewCampaignRepository(sqlDB)
	rulesRepo := postgres.NewPricingRulesRepository(sqlDB)

	// ----- Services (Usecases) -----
	rulesService, err := rulesUsecase.NewRulesService(rulesRepo, defaults, logger)
	if err != nil {
		return fmt.Errorf("invalid pricing defaults: %w", err)
	}
	previewCache := cache.NewPreviewCache(redisClient, s.cfg.PreviewCacheTTL)
	quoteService := quoteUsecase.NewQuoteService(rulesService, previewCache, logger)
	campaignService := campaignUsecase.NewCampaignService(campaignRepo, quoteService, s.cfg.Location(), logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	hub.RegisterHandler(wsHandlers.NewQuoteHandler(quoteService))

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Jobs -----
	s.scheduler = jobs.NewScheduler(jobs.NewJobs(campaignService, logger), s.cfg.Location(), logger)
	if err := s.scheduler.Start(s.cfg.StatusSweepSchedule); err != nil {
		return err
	}

	// ----- Handlers -----
	previewLimiter := ratelimit.NewLimiter(redisClient, "preview", s.cfg.PreviewRateLimit, s.cfg.PreviewRateWindow)

	handlers := &Handlers{
		QuoteHandler:    quoteHandler.NewQuoteHandler(quoteService),
		RulesHandler:    rulesHandler.NewRulesHandler(rulesService, hub),
		CampaignHandler: campaignHandler.NewCampaignHandler(campaignService),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, s.cfg.CORSOrigins, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(verifier),
		PreviewLimit:    middleware.RateLimitByAgency(previewLimiter, logger),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, handlers)

	// ----- HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Serve blocks serving HTTP. It returns nil once Shutdown has been called.
func (s *Server) Serve() error {
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and running
// jobs, then closes live connections and the backing stores.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if s.scheduler != nil {
		select {
		case <-s.scheduler.Stop().Done():
		case <-ctx.Done():
			errs = append(errs, errors.New("timed out waiting for scheduled jobs"))
		}
	}

	if s.stopHub != nil {
		s.stopHub()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if s.sqlDB != nil {
		if err := s.sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}

	return errors.Join(errs...)
}
