package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"apnastay/internal/bookings/service"
	"apnastay/internal/notifier"
	"apnastay/pkg/config"
	"apnastay/pkg/email"
	"apnastay/pkg/kafka"
	kafka_config "apnastay/pkg/kafka/config"
	kafka_middleware "apnastay/pkg/kafka/middleware"

	"github.com/joho/godotenv"
)

const (
	ServiceName   = "notifier"
	ConsumerGroup = "notifier"
)

func main() {
	godotenv.Load()
	cfg := config.Load(ServiceName)

	mailer := email.New(cfg.EmailBaseURL, cfg.EmailAPIKey, "ApnaStay", cfg.EmailSender)
	handler := notifier.NewHandler(mailer, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		service.NotificationTopic,
		ConsumerGroup,
		service.NotificationDLQTopic,
		handler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Starting notifier", "topic", service.NotificationTopic, "group", ConsumerGroup)
	if err := consumer.Start(ctx); err != nil && err != context.Canceled {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
