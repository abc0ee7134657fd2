// Package httpapi wires the HTTP transport (Gin) to the gateway's components:
// middleware, the five action handlers, and their upstream clients.
//
// Middleware order implements the request pipeline:
//  1. OpenTelemetry tracing
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: panics become the 500 envelope
//  5. Metrics
//  6. CORS: OPTIONS preflight is answered here, bypassing everything below
//  7. Security headers, gzip (streaming route excluded)
//
// then per action route:
//
//	payload-size guard -> auth -> rate limit -> handler
//
// Any failing step short-circuits with its envelope; nothing after a failure
// runs.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/config"
	"github.com/tasknest/actions-gateway/internal/http/handlers"
	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/ratelimit"
)

// Deps carries the constructed components the router composes. Everything is
// injected so tests can substitute fakes and so the limiter can be swapped
// for a distributed implementation without touching handler code.
type Deps struct {
	DB       *gorm.DB
	Verifier middleware.TokenVerifier
	Limiter  *ratelimit.Limiter
	LLM      handlers.CompletionClient
	Payments handlers.PaymentsClient
	Push     handlers.PushClient
	Email    handlers.EmailClient
}

// RegisterRoutes attaches all middleware and the action endpoints to the
// given Gin engine.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	// CORS answers OPTIONS preflight before auth or rate limiting run.
	corsCfg := cors.Config{
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStore:    true,
	}))

	// The SSE route must not be compressed or events would sit in the gzip
	// buffer instead of reaching the client.
	streamPath := joinPath(cfg.APIBasePath, actions.AICompletion)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{streamPath})))

	// Fallbacks keep the envelope uniform even off the happy path.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.New(deps.DB, deps.LLM, deps.Payments, deps.Push, deps.Email)

	api := groupWithPrefix(r, cfg.APIBasePath)
	register := func(action string, handler gin.HandlerFunc) {
		api.POST("/"+action,
			middleware.BodyGuard(actions.BodyLimit(action)),
			middleware.Auth(deps.Verifier),
			middleware.RateLimit(deps.Limiter, action),
			handler,
		)
	}
	register(actions.AICompletion, h.Completion)
	register(actions.PaymentIntent, h.CreatePaymentIntent)
	register(actions.CheckoutSession, h.CreateCheckout)
	register(actions.Notification, h.SendNotifications)
	register(actions.Email, h.SendEmail)
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath joins the base path and an action segment without doubling
// slashes.
func joinPath(base, segment string) string {
	if base == "" || base == "/" {
		return "/" + segment
	}
	return base + "/" + segment
}
