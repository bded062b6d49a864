package main

import (
	"hemstay/internal/users/handler"
	"hemstay/internal/users/repository"
	"hemstay/internal/users/service"
	"hemstay/internal/users/validator"
	"hemstay/pkg/app"
	"hemstay/pkg/auth"
	"hemstay/pkg/config"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Invalid auth configuration", "error", err)
	}

	cfg.Log.Info("Starting Users service")
	userService := initServices(cfg, authManager)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewUserHandler(userService, authManager, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, authManager *auth.Manager) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(
		userRepo,
		userValidator,
		authManager,
		cfg,
	)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
