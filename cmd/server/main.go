package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/config"
	"github.com/ntp/agent-server-go/internal/database"
	"github.com/ntp/agent-server-go/internal/handler"
	"github.com/ntp/agent-server-go/internal/httputil"
	"github.com/ntp/agent-server-go/internal/jobs"
	"github.com/ntp/agent-server-go/internal/metrics"
	"github.com/ntp/agent-server-go/internal/middleware"
	"github.com/ntp/agent-server-go/internal/redis"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/service"
	"github.com/ntp/agent-server-go/internal/tenant"
	"github.com/ntp/agent-server-go/internal/token"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := cfg.IsProduction()
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL, "up"); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	codec, err := token.NewCodec(token.Options{
		Secret:    cfg.JWTSecretKey,
		Algorithm: cfg.JWTAlgorithm,
		Issuer:    cfg.JWTIssuer,
		Lifetime:  cfg.SessionLifetime(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure token codec")
	}

	agentRepo := repository.NewAgentRepository(db.DB)
	memberRepo := repository.NewMemberRepository(db.DB)
	moneyLogRepo := repository.NewMoneyLogRepository(db.DB)
	loginLogRepo := repository.NewLoginLogRepository(db.DB)
	groupSetRepo := repository.NewGroupSetRepository(db.DB)
	recordRepo := repository.NewRecordRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	menuRepo := repository.NewMenuRepository(db.DB)

	authService := service.NewAuthService(agentRepo, loginLogRepo, codec, cfg.LoginCaptcha)
	memberService := service.NewMemberService(db, agentRepo, memberRepo, moneyLogRepo)
	promotionService := service.NewPromotionService(agentRepo, groupSetRepo)
	reportService := service.NewReportService(memberRepo, reportRepo)
	recordService := service.NewRecordService(agentRepo, memberRepo, recordRepo)
	groupSetService := service.NewGroupSetService(groupSetRepo, redisClient, cfg.GroupSetCacheTTL())
	menuService := service.NewMenuService(menuRepo)

	requestContextMiddleware := middleware.NewRequestContextMiddleware(tenant.NewResolver(cfg.DefaultGroupPrefix))
	sessionValidator := middleware.NewSessionValidator(codec)
	agentRateLimitMiddleware := middleware.NewAgentRateLimitMiddleware(
		middleware.NewRedisRateLimiter(redisClient.Client), cfg.AgentRateLimitPerMin,
	)
	loginRateLimitMiddleware := middleware.NewIPRateLimitMiddleware(
		service.NewRateLimiter(redisClient.Client), config.LoginMaxAttempts, config.LoginWindow, "login",
	)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService)
	agentHandler := handler.NewAgentHandler(memberService, promotionService, reportService, recordService)
	groupSetHandler := handler.NewGroupSetHandler(groupSetService)
	menuHandler := handler.NewMenuHandler(menuService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.FloodGuard(cfg.IPRateLimitPerMin))
	r.Use(requestContextMiddleware.Handler)
	r.Use(middleware.RequestLogger)
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httputil.Error(w, "database unavailable", http.StatusServiceUnavailable, nil)
			return
		}
		httputil.Success(w, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		}, "ok")
	})

	if cfg.MetricsEnabled {
		metrics.MustRegister(prometheus.DefaultRegisterer)
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(sessionValidator.Optional)
		r.Mount("/login", authHandler.Routes(loginRateLimitMiddleware.Handler))
		r.Mount("/set", groupSetHandler.Routes())
		r.Mount("/menu", menuHandler.Routes())
	})

	r.Route("/agent", func(r chi.Router) {
		r.Use(sessionValidator.Handler)
		r.Use(agentRateLimitMiddleware.Handler)
		r.Mount("/", agentHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(loginLogRepo, cfg.LoginLogRetention(), config.LoginLogCleanupInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("production", isProduction).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
