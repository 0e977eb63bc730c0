package main

import (
	"apnastay/internal/listings/handler"
	"apnastay/internal/listings/repository"
	"apnastay/internal/listings/service"
	"apnastay/internal/listings/validator"
	"apnastay/pkg/app"
	"apnastay/pkg/config"
	"apnastay/pkg/geocode"

	"github.com/joho/godotenv"
)

const ServiceName = "listings"

func main() {
	godotenv.Load()
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Listings service")

	listingRepo := repository.NewMongoListingRepository(cfg)
	reviewRepo := repository.NewMongoReviewRepository(cfg)
	watchlistRepo := repository.NewMongoWatchlistRepository(cfg)
	listingValidator := validator.NewListingValidator(cfg.Log)
	geocoder := geocode.New(cfg.GeocodeBaseURL, cfg.GeocodeToken, cfg.Log)

	listingService := service.NewListingService(cfg, listingRepo, reviewRepo, geocoder, listingValidator)
	reviewService := service.NewReviewService(cfg, reviewRepo, listingRepo, listingValidator)
	watchlistService := service.NewWatchlistService(cfg, watchlistRepo, listingRepo)

	cfg.Log.Info("Listing services initialized", "database", cfg.MongoDatabaseName)

	app.NewApplication(cfg,
		handler.NewListingHandler(listingService, cfg.Log),
		handler.NewReviewHandler(reviewService, cfg.Log),
		handler.NewWatchlistHandler(watchlistService, cfg.Log),
	).Run()
}
