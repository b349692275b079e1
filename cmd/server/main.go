package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/funnelkit/leadmail/internal/api"
	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/internal/leads"
	"github.com/funnelkit/leadmail/internal/mailer"
	"github.com/funnelkit/leadmail/internal/mailtmpl"
	"github.com/funnelkit/leadmail/pkg/config"
	"github.com/funnelkit/leadmail/pkg/environment"
	"github.com/funnelkit/leadmail/pkg/httpserver"
	"github.com/funnelkit/leadmail/pkg/logger"
	"github.com/funnelkit/leadmail/pkg/ratelimit"
	"github.com/funnelkit/leadmail/pkg/requestid"
)

type appConfig struct {
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	ProductsFile string `env:"PRODUCTS_FILE" envDefault:"products.yaml"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		serverCfg httpserver.Config
		routerCfg api.RouterConfig
		leadsCfg  leads.Config
		tmplCfg   mailtmpl.Config
		mailCfg   mailer.Config
		limitCfg  ratelimit.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&serverCfg)
	config.MustLoad(&routerCfg)
	config.MustLoad(&leadsCfg)
	config.MustLoad(&tmplCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&limitCfg)

	env := environment.Parse(appCfg.Environment)

	log := logger.New(
		logger.WithEnvironment(env, "leadmail"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	cat, err := catalog.Load(appCfg.ProductsFile)
	if err != nil {
		return fmt.Errorf("load product catalog: %w", err)
	}

	recorder, err := leads.NewRecorder(leadsCfg, log)
	if err != nil {
		return fmt.Errorf("init lead recorder: %w", err)
	}

	resolver := mailtmpl.NewResolver(tmplCfg, log)

	sender, err := newSender(mailCfg, env, log)
	if err != nil {
		return fmt.Errorf("init email sender: %w", err)
	}
	dispatcher := mailer.NewDispatcher(sender, mailCfg, log)

	limiter, err := newLimiter(ctx, limitCfg, log)
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}

	handler := api.NewHandler(cat, recorder, resolver, dispatcher, env, log)
	router := api.NewRouter(handler, routerCfg, limiter)

	srv := httpserver.NewFromConfig(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started",
				slog.String("addr", serverCfg.Addr),
				slog.String("environment", string(env)),
				slog.Any("products", cat.Slugs()),
			)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)

	return srv.Run(ctx, router)
}

// newSender picks the delivery backend. Production requires a Postmark token;
// development without one falls back to writing messages to the local outbox.
func newSender(cfg mailer.Config, env environment.Environment, log *slog.Logger) (mailer.Sender, error) {
	if cfg.PostmarkServerToken == "" && env == environment.Development {
		log.Warn("no postmark token configured, writing email to outbox",
			slog.String("outbox", cfg.OutboxDir))
		return mailer.NewDevSender(cfg.OutboxDir), nil
	}
	return mailer.NewPostmarkSender(cfg)
}

// newLimiter builds the fixed-window limiter over Redis when REDIS_URL is
// set, or an in-process store otherwise.
func newLimiter(ctx context.Context, cfg ratelimit.Config, log *slog.Logger) (ratelimit.Limiter, error) {
	var store ratelimit.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store, err = ratelimit.NewRedisStore(client)
		if err != nil {
			return nil, err
		}
		log.Info("rate limiting backed by redis")
	} else {
		store = ratelimit.NewMemoryStore()
	}
	return ratelimit.NewFixedWindow(store, cfg.Max, cfg.Window)
}
