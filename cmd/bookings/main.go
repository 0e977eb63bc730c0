package main

import (
	"apnastay/internal/bookings/handler"
	"apnastay/internal/bookings/repository"
	"apnastay/internal/bookings/service"
	"apnastay/internal/bookings/validator"
	"apnastay/pkg/app"
	"apnastay/pkg/config"
	"apnastay/pkg/kafka"
	kafka_config "apnastay/pkg/kafka/config"
	kafka_middleware "apnastay/pkg/kafka/middleware"
	"apnastay/pkg/payment"
	"apnastay/pkg/sealer"

	"github.com/joho/godotenv"
)

const ServiceName = "bookings"

func main() {
	godotenv.Load()
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)
	app.NewApplication(cfg, handler.NewBookingHandler(bookingService, cfg.Log)).Run()
}

func initServices(cfg *config.Config) service.BookingService {
	checkoutSealer, err := sealer.New(cfg.CheckoutSealerKey)
	if err != nil {
		cfg.Log.Fatal("Invalid checkout sealer key", "error", err)
	}

	producer, err := kafka.NewProducer(
		kafka_config.Load(),
		service.NotificationTopic,
		service.NotificationDLQTopic,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	bookingService := service.NewBookingService(
		cfg,
		repository.NewMongoBookingRepository(cfg),
		repository.NewBookingLockRepository(cfg),
		repository.NewRedisDraftRepository(cfg),
		repository.NewMongoListingReader(cfg),
		validator.NewBookingValidator(cfg.Log),
		checkoutSealer,
		payment.New(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentKeySecret),
		service.NewKafkaNotificationPublisher(producer),
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
