package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/apexhub/api"
	"github.com/dmitrymomot/apexhub/apps/leadagent"
	"github.com/dmitrymomot/apexhub/apps/reportagent"
	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/core/cache"
	"github.com/dmitrymomot/apexhub/core/config"
	"github.com/dmitrymomot/apexhub/core/email"
	"github.com/dmitrymomot/apexhub/core/logger"
	"github.com/dmitrymomot/apexhub/core/scheduler"
	"github.com/dmitrymomot/apexhub/core/server"
	"github.com/dmitrymomot/apexhub/integration/database/pg"
	rdb "github.com/dmitrymomot/apexhub/integration/database/redis"
	"github.com/dmitrymomot/apexhub/integration/email/postmark"
	"github.com/dmitrymomot/apexhub/integration/email/smtp"
	"github.com/dmitrymomot/apexhub/integration/telegram"
	"github.com/dmitrymomot/apexhub/middleware"
	"github.com/dmitrymomot/apexhub/pkg/aigen"
	"github.com/dmitrymomot/apexhub/pkg/ratelimiter"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

type appConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"apexhub"`
	BotUsername string `env:"TELEGRAM_BOT_USERNAME,required"`

	// Telegram IDs allowed to read /v1/system endpoints.
	Operators []int64 `env:"OPERATOR_TELEGRAM_IDS"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiKey   string `env:"GEMINI_API_KEY"`
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateCapacity     int  `env:"RATE_LIMIT_CAPACITY" envDefault:"120"`
	RateRefill       int  `env:"RATE_LIMIT_REFILL" envDefault:"2"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"dev"` // dev | postmark | smtp
	DevEmailDir   string `env:"DEV_EMAIL_DIR" envDefault:"./tmp/emails"`
}

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(logCfg, cfg.AppName)

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, postgres.Migrations, pgCfg); err != nil {
		return err
	}

	repo := postgres.New(pool)

	pools := cache.New(cache.WithLogger(log))
	if err := pools.RegisterMany(
		cache.PoolConfig{Name: authz.PoolName, MaxSize: 512, TTL: time.Minute},
		cache.PoolConfig{Name: api.OrgPool, MaxSize: 256, TTL: 2 * time.Minute},
		cache.PoolConfig{Name: leadagent.CatalogPool, MaxSize: 256, TTL: 2 * time.Minute},
		cache.PoolConfig{Name: api.PlansPool, MaxSize: 32, TTL: 10 * time.Minute},
		cache.PoolConfig{Name: api.AnalyticsPool, MaxSize: 256, TTL: 30 * time.Second},
		cache.PoolConfig{Name: reportagent.ReportsPool, MaxSize: 128, TTL: time.Minute},
	); err != nil {
		return err
	}

	auth, err := authz.New(pools, repo, repo)
	if err != nil {
		return err
	}

	var generator aigen.Generator
	if cfg.OpenAIKey != "" {
		generator, err = aigen.NewOpenAI(cfg.OpenAIKey, aigen.WithOpenAIModel(cfg.OpenAIModel))
		if err != nil {
			return err
		}
	} else {
		log.Warn("OPENAI_API_KEY is not set, AI insights and report narration are disabled")
	}

	// Discovery benefits from search grounding, so it prefers Gemini and
	// falls back to the general generator.
	discovery := generator
	if cfg.GeminiKey != "" {
		discovery, err = aigen.NewGoogle(ctx, cfg.GeminiKey,
			aigen.WithGoogleModel(cfg.GeminiModel),
			aigen.WithGoogleSearchGrounding(),
		)
		if err != nil {
			return err
		}
	}

	leads, err := leadagent.NewService(repo, pools, generator, leadagent.WithLogger(log))
	if err != nil {
		return err
	}

	var mailer email.EmailSender
	switch cfg.EmailProvider {
	case "postmark":
		var pmCfg postmark.Config
		config.MustLoad(&pmCfg)
		mailer, err = postmark.New(pmCfg)
	case "smtp":
		var smtpCfg smtp.Config
		config.MustLoad(&smtpCfg)
		mailer, err = smtp.New(smtpCfg)
	default:
		mailer = email.NewDevSender(cfg.DevEmailDir)
	}
	if err != nil {
		return err
	}
	reportOpts := []reportagent.Option{
		reportagent.WithLogger(log),
		reportagent.WithMailer(mailer),
	}
	reports, err := reportagent.NewService(repo, repo, repo, pools, generator, reportOpts...)
	if err != nil {
		return err
	}

	var tgCfg telegram.Config
	config.MustLoad(&tgCfg)
	bot, err := telegram.New(tgCfg)
	if err != nil {
		return err
	}

	registry := scheduler.NewRegistry()
	if discovery != nil {
		if err := registry.Add(leadagent.DiscoveryTask(repo, repo, discovery, log)); err != nil {
			return err
		}
	}
	if err := registry.Add(leadagent.NotifierTask(repo, bot, log)); err != nil {
		return err
	}
	if err := registry.Add(reports.GenerationTask()); err != nil {
		return err
	}
	sched, err := scheduler.New(registry, scheduler.WithLogger(log))
	if err != nil {
		return err
	}

	srv := api.New(api.Config{
		Directory:  repo,
		Activity:   repo,
		Authorizer: auth,
		Leads:      leads,
		Reports:    reports,
		Scheduler:  sched,
		Pools:      pools,
		Health:     pg.Healthcheck(pool),
		BotName:    cfg.BotUsername,
		Operators:  cfg.Operators,
		Logger:     log,
	})

	var limiter ratelimiter.RateLimiter
	if cfg.RateLimitEnabled {
		var redisCfg rdb.Config
		config.MustLoad(&redisCfg)
		store, closeStore, err := rateLimitStore(ctx, redisCfg, log)
		if err != nil {
			return err
		}
		if closeStore != nil {
			defer func() { _ = closeStore() }()
		}

		limiter, err = ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       cfg.RateCapacity,
			RefillRate:     cfg.RateRefill,
			RefillInterval: time.Second,
		})
		if err != nil {
			return err
		}
	} else {
		log.Warn("rate limiting is disabled")
	}

	handler := buildHandler(tgCfg.BotToken, limiter, log, srv.Handler())

	var srvCfg server.Config
	config.MustLoad(&srvCfg)
	httpSrv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Run(ctx, handler))
	g.Go(sched.Run(ctx))

	log.Info("platform started", "addr", srvCfg.Addr, "tasks", registry.Len())
	return g.Wait()
}

// rateLimitStore picks the bucket backend: Redis when REDIS_URL is set,
// otherwise a process-local store. Single-node deploys without Redis
// still get throttling that way, at the cost of limits resetting on
// restart and not being shared between instances.
func rateLimitStore(ctx context.Context, cfg rdb.Config, log *slog.Logger) (ratelimiter.Store, func() error, error) {
	if cfg.ConnectionURL == "" {
		log.Warn("REDIS_URL is not set, rate limits are kept in memory per instance")
		return ratelimiter.NewMemoryStore(), nil, nil
	}

	client, err := rdb.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := ratelimiter.NewRedisStore(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client.Close, nil
}

// buildHandler wraps the API routes with the middleware chain, innermost
// first. A nil limiter disables rate limiting.
func buildHandler(botToken string, limiter ratelimiter.RateLimiter, log *slog.Logger, routes http.Handler) http.Handler {
	skipPublic := func(r *http.Request) bool {
		return r.URL.Path == "/healthz"
	}

	h := middleware.TelegramAuth(middleware.TelegramAuthConfig{
		BotToken: botToken,
		Skip:     skipPublic,
	})(routes)

	if limiter != nil {
		h = middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:    limiter,
			SetHeaders: true,
			Skip:       skipPublic,
		})(h)
	}

	h = middleware.BodyLimit()(h)
	h = middleware.SecurityHeaders()(h)
	h = middleware.CORS()(h)
	h = middleware.Logging(log)(h)
	h = middleware.ClientIP()(h)
	h = middleware.RequestID()(h)
	return h
}
