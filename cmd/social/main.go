package main

import (
	"apnastay/internal/social/handler"
	"apnastay/internal/social/repository"
	"apnastay/internal/social/service"
	"apnastay/pkg/app"
	"apnastay/pkg/config"

	"github.com/joho/godotenv"
)

const ServiceName = "social"

func main() {
	godotenv.Load()
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Social service")

	connectionService := service.NewConnectionService(cfg, repository.NewMongoConnectionRepository(cfg))
	messageService := service.NewMessageService(cfg, repository.NewMongoMessageRepository(cfg))

	cfg.Log.Info("Social services initialized", "database", cfg.MongoDatabaseName)

	app.NewApplication(cfg,
		handler.NewConnectionHandler(connectionService, cfg.Log),
		handler.NewMessageHandler(messageService, cfg.Log),
	).Run()
}
