package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/echoserve/support-service/internal/api/http"
	"github.com/echoserve/support-service/internal/api/http/handlers"
	"github.com/echoserve/support-service/internal/classifier"
	"github.com/echoserve/support-service/internal/config"
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/observability"
	"github.com/echoserve/support-service/internal/persistence"
	"github.com/echoserve/support-service/internal/repository"
	"github.com/echoserve/support-service/internal/service"
	"github.com/echoserve/support-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	chatRepo := repository.NewChatMessageRepository(pool)
	emailRepo := repository.NewEmailMessageRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var relay *events.KafkaRelay
	if len(cfg.Kafka.Brokers) > 0 {
		relay = events.NewKafkaRelay(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer relay.Close() //nolint:errcheck
	}

	classifierClient := classifier.NewClient(cfg.Classifier, logger)

	routerService := service.NewRouterService(service.RouterDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Config:     cfg.Routing,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		ChatRepo:   chatRepo,
		Classifier: classifierClient,
		Router:     routerService,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Classify:   cfg.Classifier,
	})
	agentService := service.NewAgentService(agentRepo)
	messageService := service.NewMessageService(chatRepo, dispatcher, logger)
	emailService := service.NewEmailService(emailRepo, classifierClient, dispatcher, logger, metrics)
	timelineService := service.NewTimelineService(ticketRepo, chatRepo, emailRepo)
	insightsService := service.NewInsightsService(timelineService, classifierClient, redis, cfg.Classifier.InsightsTTL(), logger, metrics)
	analyticsService := service.NewAnalyticsService(ticketRepo, agentRepo, emailRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)

	worker.StartEventWorkers(notificationService, relay, dispatcher)

	if cfg.Metrics.Enabled {
		go observability.ServeMetrics(ctx, cfg.Metrics.Addr, logger)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:   handlers.NewTicketsHandler(ticketService, agentService),
		Agents:    handlers.NewAgentsHandler(agentService),
		Messages:  handlers.NewMessagesHandler(messageService),
		Customers: handlers.NewCustomersHandler(timelineService, insightsService),
		Emails:    handlers.NewEmailsHandler(emailService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
