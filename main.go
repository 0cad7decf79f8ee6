package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipebox/auth"
	"recipebox/client"
	"recipebox/config"
	"recipebox/db"
	"recipebox/logging"
	"recipebox/mq"
	"recipebox/routes"
	"recipebox/web"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	events, closeEvents := openEmitter(cfg, log)
	defer closeEvents()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	apiHandler := routes.NewAPIHandler(routes.API{
		Store:        store,
		Tokens:       tokens,
		Events:       events,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
		Log:          log.Named("api"),
	})

	pages, err := web.New(client.New(cfg.APIBaseURL), tokens, cfg.CookieSecure, log.Named("web"))
	if err != nil {
		return err
	}

	servers := []*http.Server{
		newServer(cfg.APIAddr, apiHandler),
		newServer(cfg.WebAddr, pages.Handler()),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("server started", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listening on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("servers stopped cleanly")
	return nil
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (db.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store; data is lost on exit")
		return db.NewMemoryStore(), func() {}, nil
	}

	mc, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	disconnect := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Disconnect(dctx); err != nil {
			log.Error("mongodb disconnect failed", zap.Error(err))
		}
	}

	if err := db.Migrate(ctx, mc.Database(cfg.MongoDatabase), log.Named("migrate")); err != nil {
		disconnect()
		return nil, nil, err
	}
	return db.NewMongoStore(mc, cfg.MongoDatabase), disconnect, nil
}

func openEmitter(cfg *config.Config, log *zap.Logger) (mq.Emitter, func()) {
	if cfg.RedisAddr == "" {
		return mq.NewLogEmitter(log.Named("events")), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Info("publishing events to redis", zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.RedisChannel))
	return mq.NewRedisEmitter(rdb, cfg.RedisChannel), func() {
		if err := rdb.Close(); err != nil {
			log.Error("redis close failed", zap.Error(err))
		}
	}
}
