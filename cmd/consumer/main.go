package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/erain9/matchbook/config"
	"github.com/erain9/matchbook/pkg/logging"
	"github.com/erain9/matchbook/pkg/messaging/kafka"
)

// Tails the trade topic and pretty prints every message, which helps when
// developing against a local broker.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
		Output: os.Stdout,
	})

	logger := log.Logger
	ctx := logger.WithContext(context.Background())

	consumer, err := kafka.SetupConsumer(ctx, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}
	defer consumer.Close()

	logger.Info().
		Str("broker", cfg.Kafka.BrokerAddr).
		Str("topic", cfg.Kafka.Topic).
		Msg("Consuming trade messages")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
}
