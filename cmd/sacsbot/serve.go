package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/sacsbot/internal/bot"
	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/dialogue"
	"github.com/example/sacsbot/internal/handlers"
	apihttp "github.com/example/sacsbot/internal/http"
	"github.com/example/sacsbot/internal/logging"
	"github.com/example/sacsbot/internal/rate"
	"github.com/example/sacsbot/internal/session"
	"github.com/example/sacsbot/internal/telegram"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	var (
		envFile  string
		httpOnly bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		Long: `Run the Telegram bot and the HTTP API.

Configuration comes from the .env file (if present) and the environment:
  TELEGRAM_BOT_TOKEN     Bot API token (required unless --http-only)
  TELEGRAM_POLL_TIMEOUT  Long-polling timeout in seconds (default: 60)
  PORT                   HTTP port (default: 8080)
  ADMIN_TOKEN            Enables /admin/sessions when set
  SESSION_BACKEND        memory or mongo (default: memory)
  SESSION_TTL            Idle dialogue lifetime (default: 30m)
  MONGO_URI, MONGO_DB    Mongo connection for SESSION_BACKEND=mongo
  RATE_LIMIT_RPM         Messages/requests per minute per chat or IP (default: 30)
  RATE_LIMIT_BURST       Burst size (default: 5)
  LINES_MIN, LINES_MAX   Accepted rows (default: 1-17)
  BAGS_MIN, BAGS_MAX     Accepted extra bags (default: 1-10)
  LOG_LEVEL, LOG_FORMAT  DEBUG|INFO|WARN|ERROR, text|json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile, httpOnly)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to .env file (default .env)")
	cmd.Flags().BoolVar(&httpOnly, "http-only", false, "serve the HTTP API without connecting to Telegram")
	return cmd
}

func runServe(ctx context.Context, envFile string, httpOnly bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if !httpOnly {
		if err := cfg.RequireToken(); err != nil {
			return err
		}
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, closeStore, err := session.Open(openCtx, session.Options{
		Backend:  cfg.SessionBackend,
		TTL:      cfg.SessionTTL,
		MongoURI: cfg.MongoURI,
		MongoDB:  cfg.MongoDB,
	})
	cancel()
	if err != nil {
		return err
	}
	defer closeStore()

	calculator := calc.New(cfg.Limits())
	httpLimiter := rate.NewLimiterMap(cfg.RateLimitRPM, cfg.RateLimitBurst, 5*time.Minute)
	defer httpLimiter.Stop()

	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(store, cfg.AdminToken, log)
	}
	srv := &http.Server{
		Addr: listenAddr(cfg.Port),
		Handler: apihttp.NewRouter(apihttp.Deps{
			Calc:    handlers.NewCalculateHandler(calculator, log),
			Admin:   admin,
			Limiter: httpLimiter,
			Store:   store,
			Log:     log,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shCancel()
		return srv.Shutdown(shCtx)
	})

	if !httpOnly {
		tg, err := telegram.New(cfg.TelegramToken, cfg.TelegramDebug, log)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		if err := tg.RegisterCommands(); err != nil {
			log.Warn("command registration failed", "event", "telegram", "err", err)
		}
		chatLimiter := rate.NewLimiterMap(cfg.RateLimitRPM, cfg.RateLimitBurst, 5*time.Minute)
		defer chatLimiter.Stop()
		h := bot.NewHandler(bot.Deps{
			Sequencer: dialogue.NewSequencer(calculator),
			Store:     store,
			Sender:    tg,
			Limiter:   chatLimiter,
			Log:       log,
		})
		g.Go(func() error { return tg.Run(gctx, cfg.PollTimeout, h) })
	}

	return g.Wait()
}
