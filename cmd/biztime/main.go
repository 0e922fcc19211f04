package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/biztime/internal/biztime/config"
	"github.com/gartstein/biztime/internal/biztime/controller"
	"github.com/gartstein/biztime/internal/biztime/db"
	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/handlers"
	"go.uber.org/zap"
)

// eventProducer is what the services publish through, plus shutdown.
type eventProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	logger.Info("configuration loaded",
		zap.String("mode", cfg.Mode),
		zap.String("driver", cfg.DBDriver),
		zap.String("database", cfg.DatabaseName()),
	)

	repo, err := db.NewRepository(context.Background(), cfg.Database(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	companySvc := controller.NewCompanyService(repo, producer, logger)
	invoiceSvc := controller.NewInvoiceService(repo, producer, logger)
	industrySvc := controller.NewIndustryService(repo, producer, logger)

	// Create server
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.SetShutdownTimeout(cfg.ShutdownTimeout)
	if err := server.Register(
		handlers.NewCompanyHandler(companySvc, logger),
		handlers.NewInvoiceHandler(invoiceSvc, logger),
		handlers.NewIndustryHandler(industrySvc, logger),
		handlers.NewHealthHandler(repo),
		handlers.MetricsHandler{},
	); err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// initProducer connects to Kafka when brokers are configured. Events are
// discarded otherwise.
func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no Kafka brokers configured, events are disabled")
		return events.NopProducer{}
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return producer
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
