package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/auth"
	"github.com/DiDinar5/DutchAuction/internal/config"
	cronrunner "github.com/DiDinar5/DutchAuction/internal/cron"
	"github.com/DiDinar5/DutchAuction/internal/db"
	"github.com/DiDinar5/DutchAuction/internal/handler"
	"github.com/DiDinar5/DutchAuction/internal/ledger"
	"github.com/DiDinar5/DutchAuction/internal/logger"
	"github.com/DiDinar5/DutchAuction/internal/notify"
	gormrepository "github.com/DiDinar5/DutchAuction/internal/repository/gorm"
	"github.com/DiDinar5/DutchAuction/internal/service"
	"github.com/DiDinar5/DutchAuction/internal/stream"

	_ "github.com/DiDinar5/DutchAuction/docs"
)

func main() {
	config.LoadDotEnv()

	cfgPath := os.Getenv("DA_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("DA_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("auctiond exited", zap.Error(err))
		os.Exit(1)
	}
	log.Info("auctiond stopped")
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) (err error) {
	var (
		dbConn *db.DB
		store  *gormrepository.Store
		value  ledger.Ledger
	)
	switch cfg.Ledger.Backend {
	case "", "memory":
		value = ledger.NewMemory(cfg.Auction.FeeAccount)
	case "db":
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer func() { err = multierr.Append(err, db.Close(dbConn)) }()
		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			log.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		store = gormrepository.New(dbConn.Gorm)
		value = &ledger.DB{Repo: store, FeeAccount: cfg.Auction.FeeAccount, Logger: log}
	default:
		return fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
	log.Info("ledger ready", zap.String("backend", cfg.Ledger.Backend), zap.String("fee_account", cfg.Auction.FeeAccount))

	hub := stream.NewHub(64, log)
	sinks := []notify.Sink{notify.LogSink{Logger: log}, hub}
	for _, u := range cfg.Notify.WebhookURLs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		sinks = append(sinks, notify.WebhookSink{URL: u, HTTP: &http.Client{Timeout: cfg.Notify.Timeout}})
	}
	if cfg.Notify.Redis.Enabled {
		rs := notify.NewRedisSink(&redis.Options{
			Addr:     cfg.Notify.Redis.Addr,
			Password: cfg.Notify.Redis.Password,
			DB:       cfg.Notify.Redis.DB,
		}, cfg.Notify.Redis.Channel)
		defer func() { err = multierr.Append(err, rs.Close()) }()
		sinks = append(sinks, rs)
	}
	if store != nil && cfg.Notify.Outbox {
		sinks = append(sinks, notify.OutboxSink{Repo: store})
	}
	dispatcher := notify.NewDispatcher(cfg.Notify.Buffer, cfg.Notify.Timeout, log, sinks...)

	opts := auction.Options{
		FeePercent: cfg.Auction.FeePercent,
		TimeUnit:   cfg.Auction.TimeUnit,
		Transfer:   value,
		Notifier:   dispatcher,
		Logger:     log,
	}
	if store != nil {
		opts.Journal = &service.AuctionJournal{Repo: store}
	}
	registry, err := auction.NewRegistry(opts)
	if err != nil {
		return err
	}
	if store != nil {
		n, err := service.Restore(ctx, store, registry, log)
		if err != nil {
			return fmt.Errorf("restore auctions: %w", err)
		}
		log.Info("auctions restored", zap.Int("count", n), zap.Int("pending", registry.Pending()))
	}

	if !cfg.Auth.Disabled && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required unless auth.disabled is set")
	}
	if cfg.Auth.Disabled {
		log.Warn("auth disabled, callers are identified by the " + auth.AccountHeader + " header")
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(logger.AccessLog(log))

	healthHandler := &handler.HealthHandler{Registry: registry}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api/v1")
	api.Use(auth.Middleware(auth.JWT{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
		Issuer:   cfg.Auth.Issuer,
	}, cfg.Auth.Disabled))

	auctions := &handler.AuctionHandler{Registry: registry}
	auctions.Register(api)
	accounts := &handler.AccountHandler{Ledger: value, FaucetEnabled: cfg.Ledger.FaucetEnabled}
	if store != nil {
		accounts.Entries = store
		settlements := &handler.SettlementHandler{Repo: store}
		settlements.Register(api)
	}
	accounts.Register(api)
	streams := &handler.StreamHandler{Hub: hub, Dispatcher: dispatcher}
	streams.Register(api)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cronRunner := cronrunner.New(log, ctx)
	if cfg.Cron.Enabled {
		watcher := &service.ExpiryWatcher{Registry: registry, Notifier: dispatcher, Logger: log}
		if _, err := cronRunner.Add("expiry_watch", cfg.Cron.ExpiryWatch, func(ctx context.Context) error {
			_, err := watcher.RunOnce(ctx)
			return err
		}); err != nil {
			return fmt.Errorf("schedule expiry watch: %w", err)
		}
		audit := &service.LedgerAudit{Ledger: value, Logger: log}
		if _, err := cronRunner.Add("ledger_audit", cfg.Cron.LedgerAudit, audit.RunOnce); err != nil {
			return fmt.Errorf("schedule ledger audit: %w", err)
		}
		cronRunner.Start()
	}

	// The dispatcher outlives the server drain and the cron jobs so events produced
	// while shutting down still reach the sinks.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	dispatchDone := make(chan error, 1)
	go func() { dispatchDone <- dispatcher.Run(dispatchCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = g.Wait()

	if cfg.Cron.Enabled {
		cronRunner.Stop()
	}
	stopDispatch()
	if derr := <-dispatchDone; derr != nil && !errors.Is(derr, context.Canceled) {
		err = multierr.Append(err, derr)
	}
	return err
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,"+auth.AccountHeader+","+logger.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
