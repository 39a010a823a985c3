package main

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	apiHandler "github.com/fastygo/contracts/api/handler"
	"github.com/fastygo/contracts/internal/config"
	"github.com/fastygo/contracts/internal/htmltable"
	"github.com/fastygo/contracts/internal/infrastructure/monitor"
	"github.com/fastygo/contracts/internal/infrastructure/outbox"
	"github.com/fastygo/contracts/internal/infrastructure/pdf"
	pgInfra "github.com/fastygo/contracts/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/contracts/internal/infrastructure/redis"
	"github.com/fastygo/contracts/internal/infrastructure/tracking"
	"github.com/fastygo/contracts/internal/middleware"
	"github.com/fastygo/contracts/internal/router"
	"github.com/fastygo/contracts/internal/services/lifecycle"
	"github.com/fastygo/contracts/internal/services/notifier"
	"github.com/fastygo/contracts/pkg/format"
	"github.com/fastygo/contracts/pkg/httpcontext"
	"github.com/fastygo/contracts/pkg/logger"
	"github.com/fastygo/contracts/repository/postgres"
	redisRepo "github.com/fastygo/contracts/repository/redis"
	"github.com/fastygo/contracts/usecase"
	contractUC "github.com/fastygo/contracts/usecase/contract"
	signatureUC "github.com/fastygo/contracts/usecase/signature"
	templateUC "github.com/fastygo/contracts/usecase/template"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if tag, err := language.Parse(cfg.Contracts.Locale); err == nil {
		format.Locale = tag
	} else {
		zapLogger.Warn("unknown contract locale, keeping default", zap.String("locale", cfg.Contracts.Locale))
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	defer manager.Listen(cancel)()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, cfg.Outbox.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	repos := contractUC.Repositories{
		Contracts: postgres.NewContractRepository(pool),
		Events:    postgres.NewContractEventRepository(pool),
		Templates: postgres.NewTemplateRepository(pool),
		Projects:  postgres.NewProjectRepository(pool),
		Customers: postgres.NewCustomerRepository(pool),
		Scopes:    postgres.NewScopeRepository(pool),
		Users:     postgres.NewUserRepository(pool),
		Tx:        postgres.NewTransactor(pool),
	}
	notificationRepo := postgres.NewNotificationRepository(pool)
	webhookEvents := redisRepo.NewWebhookEventRepository(redisClient, cfg.Webhook.DedupTTL)

	trackingClient := tracking.New(tracking.Config{
		URL:     cfg.Tracking.URL,
		Token:   cfg.Tracking.Token,
		Timeout: cfg.Tracking.Timeout,
	}, nil)

	processor := notifier.NewProcessor(
		outboxStore,
		mon,
		notificationRepo,
		trackingClient,
		zapLogger,
		notifier.Config{
			Interval:   cfg.Outbox.DrainInterval,
			BatchSize:  cfg.Outbox.BatchSize,
			MaxRetries: cfg.Outbox.MaxRetry,
		},
	)
	processor.Start()
	manager.Register("notifier", func(ctx context.Context) error {
		processor.Stop(ctx)
		return nil
	})

	janitor := cron.New()
	_, _ = janitor.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-time.Duration(cfg.Outbox.RetentionHours) * time.Hour)
		removed, err := outboxStore.Cleanup(cutoff)
		if err != nil {
			zapLogger.Warn("outbox cleanup failed", zap.Error(err))
			return
		}
		if removed > 0 {
			zapLogger.Info("outbox cleanup", zap.Int("removed", removed))
		}
	})
	janitor.Start()
	manager.Register("outbox_cleanup", func(ctx context.Context) error {
		<-janitor.Stop().Done()
		return nil
	})

	pdfRenderer := pdf.New(pdf.Config{
		ControlURL: cfg.PDF.ControlURL,
		Bin:        cfg.PDF.Bin,
		Timeout:    cfg.PDF.Timeout,
	}, zapLogger)
	manager.Register("pdf", pdfRenderer.Close)

	contractUseCase := contractUC.New(repos, notifier.NewBridge(processor), zapLogger, contractUC.Options{
		Tiers: cfg.Contracts.Tiers,
		Labels: htmltable.Labels{
			Plan:       cfg.Contracts.PlanLabel,
			Investment: cfg.Contracts.InvestLabel,
			DueDates:   cfg.Contracts.DueLabel,
		},
		TierKeywords: cfg.Contracts.TierKeywords,
		Renderer:     pdfRenderer,
	})

	dispatcher := usecase.NewDispatcher()
	contractUseCase.RegisterCommands(dispatcher)
	zapLogger.Info("commands registered", zap.Strings("commands", dispatcher.Commands()))

	templateUseCase := templateUC.New(repos.Templates, cfg.Contracts.TierKeywords, zapLogger)
	signatureUseCase := signatureUC.New(cfg.Webhook.Secret, webhookEvents, dispatcher, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Contract: apiHandler.NewContractHandler(contractUseCase, ctxAdapter, zapLogger),
		Template: apiHandler.NewTemplateHandler(templateUseCase, ctxAdapter, zapLogger),
		Webhook:  apiHandler.NewWebhookHandler(signatureUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		MaxRequestBodySize: 8 << 20,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
