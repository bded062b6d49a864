package main

import (
	"hemstay/internal/properties/handler"
	"hemstay/internal/properties/repository"
	"hemstay/internal/properties/service"
	"hemstay/internal/properties/validator"
	"hemstay/pkg/app"
	"hemstay/pkg/auth"
	"hemstay/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Invalid auth configuration", "error", err)
	}

	cfg.Log.Info("Starting Properties service")
	propertyService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPropertyHandler(propertyService, authManager, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PropertyService {
	propertyValidator := validator.NewPropertyValidator(cfg.Log)
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	propertyService := service.NewPropertyService(
		propertyRepo,
		propertyValidator,
		cfg,
	)

	cfg.Log.Info("Property service initialized", "database", cfg.MongoDatabaseName)
	return propertyService
}
