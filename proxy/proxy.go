// Package proxy serves the Ollama-style local API and translates each call
// into requests against an OpenAI-compatible upstream.
package proxy

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/llm"
	"github.com/papercomputeco/bridge/pkg/metrics"
	"github.com/papercomputeco/bridge/pkg/modelcache"
	"github.com/papercomputeco/bridge/pkg/thinkfilter"
	"github.com/papercomputeco/bridge/pkg/upstream"
)

// Upstream is what the proxy needs from the upstream API.
type Upstream interface {
	ListModels(ctx context.Context) ([]upstream.Model, error)
	CreateChatCompletion(ctx context.Context, req upstream.Completion) (string, error)
}

// Proxy is the local-API server. Handlers share nothing but the model-list
// cache and the think-filter policy, both of which are swapped atomically.
type Proxy struct {
	config   Config
	upstream Upstream
	models   *modelcache.Cache
	policy   atomic.Pointer[thinkfilter.Policy]
	logger   *zap.Logger
	server   *fiber.App
}

// New creates a new Proxy backed by an upstream client built from config.
func New(config Config, logger *zap.Logger) (*Proxy, error) {
	if config.ListenAddr == "" {
		return nil, errors.New("listen address is required")
	}
	return newProxy(config, upstream.New(config.Upstream, logger), logger), nil
}

func newProxy(config Config, up Upstream, logger *zap.Logger) *Proxy {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		ErrorHandler:          errorHandler,
	})

	p := &Proxy{
		config:   config,
		upstream: up,
		models:   modelcache.New(up, config.ModelCacheTTL, logger),
		logger:   logger,
		server:   app,
	}
	p.policy.Store(config.ThinkFilter.Policy())

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(p.logRequests)
	app.Use(metrics.Middleware())

	// Liveness
	app.Get("/", p.handleRoot)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	// Local API
	app.Post("/api/chat", rejectH2CUpgrade, p.handleChat)
	app.Post("/api/generate", rejectH2CUpgrade, p.handleGenerate)
	app.Get("/api/tags", p.handleTags)
	app.Get("/api/version", p.handleVersion)
	app.Post("/api/show", p.handleShow)
	app.Get("/api/show", p.handleShow)

	if config.MetricsPath != "" {
		app.Get(config.MetricsPath, metrics.Handler())
	}

	return p
}

// RunWithListener serves on an existing listener until Shutdown.
func (p *Proxy) RunWithListener(ln net.Listener) error {
	p.logger.Info("starting proxy server",
		zap.String("listen", ln.Addr().String()),
		zap.String("upstream", p.config.Upstream.BaseURL),
	)

	return p.server.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (p *Proxy) Shutdown(ctx context.Context) error {
	return p.server.ShutdownWithContext(ctx)
}

// SetThinkFilter swaps the think-filter policy used by subsequent requests.
func (p *Proxy) SetThinkFilter(tf ThinkFilter) {
	p.policy.Store(tf.Policy())
	p.logger.Info("think filter updated",
		zap.Bool("enabled", tf.Enabled),
		zap.Int("prefixes", len(tf.Rule.Prefixes)),
		zap.Int("suffixes", len(tf.Rule.Suffixes)),
	)
}

// errorHandler renders errors escaping the handlers as an ErrorResponse.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(llm.ErrorResponse{Error: message})
}
