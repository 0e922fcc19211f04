// biztime-events tails the BizTime event topic and logs every event it reads.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/biztime/internal/biztime/config"
	"github.com/gartstein/biztime/internal/biztime/events"
	"go.uber.org/zap"
)

const groupID = "biztime-events-tail"

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, groupID, cfg.Topic, logger)
	consumer.Start(ctx)
	logger.Info("tailing events", zap.String("topic", cfg.Topic), zap.Strings("brokers", cfg.KafkaBrokers))

	select {
	case <-ctx.Done():
	case <-consumer.Done():
	}
	consumer.Close()
	<-consumer.Done()
}
