// Command server runs the actions gateway: an HTTP service fronting the
// mobile app's backend actions (AI completion, payments, push notifications,
// transactional email) behind a uniform pipeline of payload guarding, bearer
// authentication, and per-principal rate limiting.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/auth"
	"github.com/tasknest/actions-gateway/internal/config"
	httpapi "github.com/tasknest/actions-gateway/internal/http"
	"github.com/tasknest/actions-gateway/internal/observability"
	"github.com/tasknest/actions-gateway/internal/ratelimit"
	"github.com/tasknest/actions-gateway/internal/repo"
	"github.com/tasknest/actions-gateway/internal/sysutil"
	"github.com/tasknest/actions-gateway/internal/upstream/email"
	"github.com/tasknest/actions-gateway/internal/upstream/llm"
	"github.com/tasknest/actions-gateway/internal/upstream/payments"
	"github.com/tasknest/actions-gateway/internal/upstream/push"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownOTel, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database failed")
	}

	deps := httpapi.Deps{
		DB:       db,
		Verifier: auth.New(cfg.Identity.URL, cfg.Identity.ServiceKey),
		Limiter: ratelimit.New(actions.Policies(), ratelimit.Config{
			MaxRequests: cfg.RateDefaultMax,
			Window:      cfg.RateDefaultWindow,
		}),
		LLM:      llm.NewClient(cfg.Upstream.LLMAPIKey, llmOptions(cfg)...),
		Payments: payments.NewClient(cfg.Upstream.PaymentSecretKey, paymentOptions(cfg)...),
		Push:     push.NewClient(cfg.Upstream.PushAccessToken, pushOptions(cfg)...),
		Email:    email.NewClient(cfg.Upstream.EmailAPIKey, cfg.Upstream.EmailFrom, emailOptions(cfg)...),
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
}

func llmOptions(cfg config.Config) []llm.Option {
	var opts []llm.Option
	if cfg.Upstream.LLMBaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.Upstream.LLMBaseURL))
	}
	return opts
}

func paymentOptions(cfg config.Config) []payments.Option {
	var opts []payments.Option
	if cfg.Upstream.PaymentBaseURL != "" {
		opts = append(opts, payments.WithBaseURL(cfg.Upstream.PaymentBaseURL))
	}
	return opts
}

func pushOptions(cfg config.Config) []push.Option {
	var opts []push.Option
	if cfg.Upstream.PushBaseURL != "" {
		opts = append(opts, push.WithBaseURL(cfg.Upstream.PushBaseURL))
	}
	return opts
}

func emailOptions(cfg config.Config) []email.Option {
	var opts []email.Option
	if cfg.Upstream.EmailBaseURL != "" {
		opts = append(opts, email.WithBaseURL(cfg.Upstream.EmailBaseURL))
	}
	return opts
}
