package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/attendant-desk/internal/api/http"
	"github.com/spec-kit/attendant-desk/internal/api/http/handlers"
	"github.com/spec-kit/attendant-desk/internal/auth"
	"github.com/spec-kit/attendant-desk/internal/config"
	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/mail"
	"github.com/spec-kit/attendant-desk/internal/messaging"
	"github.com/spec-kit/attendant-desk/internal/observability"
	"github.com/spec-kit/attendant-desk/internal/persistence"
	"github.com/spec-kit/attendant-desk/internal/queue"
	"github.com/spec-kit/attendant-desk/internal/repository"
	"github.com/spec-kit/attendant-desk/internal/service"
	"github.com/spec-kit/attendant-desk/internal/storage"
	"github.com/spec-kit/attendant-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.App.PublicBaseURL == "" {
		logger.Warn("PUBLIC_BASE_URL not set; media sending and reset emails are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationStore = auth.NoopRevocationStore{}
	if redis.Available() {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	} else {
		logger.Warn("session revocation disabled; logout only clears the cookie")
	}

	pool := pg.PoolHandle()
	attendantRepo := repository.NewAttendantRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	quickReplyRepo := repository.NewQuickReplyRepository(pool)

	sender, err := messaging.NewTwilioSender(cfg.Twilio, logger)
	if err != nil {
		logger.Fatal("failed to init messaging provider", zap.Error(err))
	}
	uploads, err := storage.NewLocalStore(cfg.Uploads.Dir, int64(cfg.Uploads.MaxSizeBytes))
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewSMTPMailer(cfg.Mail)
	if !cfg.Mail.Configured() {
		logger.Warn("mail not configured; password reset emails will be dropped")
	}
	emailWorker := worker.NewEmailWorker(mailer, logger)

	var resetQueue service.ResetEmailQueue
	if cfg.Queue.Enabled && redis.Available() {
		opt := persistence.AsynqOpt(cfg.Redis)
		client := queue.NewClient(opt, cfg.Queue)
		defer client.Close() //nolint:errcheck
		resetQueue = client

		server := queue.NewServer(opt, cfg.Queue, logger)
		emailWorker.Register(server)
		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Error("queue server stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("background queue disabled; emails are sent inline")
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AttendantRepo:     attendantRepo,
		PasswordResetRepo: resetRepo,
		Revocations:       revocations,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	messagingService := service.NewMessagingService(service.MessagingDependencies{
		Sender:        sender,
		MessageRepo:   messageRepo,
		MediaRepo:     mediaRepo,
		Store:         uploads,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		PublicBaseURL: cfg.App.PublicBaseURL,
	})
	conversationService := service.NewConversationService(service.ConversationDependencies{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		MediaRepo:        mediaRepo,
		Messaging:        messagingService,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	notifications := service.NewNotificationService(dispatcher, logger, resetQueue, emailWorker, cfg.App.PublicBaseURL)
	notifications.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), attendantRepo, revocations, cfg.Auth.CookieName)
	cookie := handlers.SessionCookie{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		BodyLimit:             cfg.Uploads.MaxSizeBytes + 1<<20,
		ReadTimeout:           cfg.App.RequestTimeout(),
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Pages:          handlers.NewPagesHandler(authService, authMiddleware, cookie),
		Auth:           handlers.NewAuthHandler(authService, cookie),
		Conversations:  handlers.NewConversationsHandler(conversationService),
		Messages:       handlers.NewMessagesHandler(messagingService),
		Catalog:        handlers.NewCatalogHandler(service.NewContactService(contactRepo), service.NewQuickReplyService(quickReplyRepo)),
		Uploads:        handlers.NewUploadsHandler(uploads),
		AuthMiddleware: authMiddleware,
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
