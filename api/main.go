package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/auth"
	"github.com/rogerio-castellano/stockly/internal/config"
	api "github.com/rogerio-castellano/stockly/internal/http"
	"github.com/rogerio-castellano/stockly/internal/http/ban"
	"github.com/rogerio-castellano/stockly/internal/http/handlers"
	rl "github.com/rogerio-castellano/stockly/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
	"github.com/rogerio-castellano/stockly/internal/status"
)

const projectName = "Stockly"

// @title Stockly API
// @version 1.0
// @description REST API for products, categories, suppliers and business insights.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logx.Init(logx.LoggerOpts{})
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(logx.LoggerOpts{Production: cfg.Env().IsProduction()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		logx.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("could not open storage")
	}
	defer store.close()
	logx.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	probes := []status.Probe{status.PingProbe("storage", store.products.Ping)}

	var kv redissvc.Store
	if cfg.Redis.URL != "" {
		rdb, err := redissvc.NewClient(ctx, cfg.Redis)
		if err != nil {
			logx.Fatal().Err(err).Msg("could not connect to Redis")
		}
		defer rdb.Close()
		svc := redissvc.NewRedisService(rdb)
		kv = svc
		probes = append(probes, status.PingProbe("redis", svc.Ping))
	} else {
		logx.Warn().Msg("redis.url not set, sessions and bans are kept in memory")
		kv = redissvc.NewMemoryStore()
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = rand.Text()
		logx.Warn().Msg("auth.jwt_secret not set, using a random secret; tokens will not survive a restart")
	}
	authService := auth.NewAuthService(store.users, auth.NewIssuer(secret, cfg.Auth.TokenTTL), kv)

	server := handlers.NewServer(handlers.Deps{
		Products:      store.products,
		Categories:    store.categories,
		Suppliers:     store.suppliers,
		Auth:          authService,
		Status:        status.NewChecker(projectName, string(cfg.Env()), startedAt, cfg.Status.Timeout),
		Probes:        probes,
		StatusBaseURL: cfg.Status.BaseURL,
		HTTPClient:    &http.Client{Timeout: cfg.Status.Timeout},
		Analytics: analytics.Options{
			Locale:   cfg.Analytics.Locale,
			Currency: cfg.Analytics.Currency,
		},
	})

	trustedProxies, err := api.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid http.trusted_proxies")
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	guard := ban.NewGuard(kv, cfg.RateLimit)
	go limiter.StartCleanupLoop(ctx, time.Minute)
	go guard.StartBanSummary(ctx, 24*time.Hour)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewRouter(api.RouterDeps{
			Server:  server,
			Auth:    authService,
			Limiter: limiter,
			Guard:   guard,

			TrustedProxies: trustedProxies,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTP.Addr).Str("environment", string(cfg.Env())).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}
