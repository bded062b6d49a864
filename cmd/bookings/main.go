package main

import (
	"hemstay/internal/bookings/handler"
	"hemstay/internal/bookings/repository"
	"hemstay/internal/bookings/service"
	"hemstay/internal/bookings/validator"
	"hemstay/internal/events"
	"hemstay/pkg/app"
	"hemstay/pkg/auth"
	"hemstay/pkg/config"
	"hemstay/pkg/kafka"
	kafka_config "hemstay/pkg/kafka/config"
	kafka_middleware "hemstay/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Invalid auth configuration", "error", err)
	}

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, authManager, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewAdmissionLockRepository(cfg)
	propertyReader := repository.NewPropertyReader(cfg)

	var publisher service.EventPublisher
	if producer != nil {
		publisher = events.NewBookingPublisher(producer, cfg.Log)
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyReader,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initProducer wires the event producer. Event publishing is
// best-effort, so a broken Kafka setup degrades to no events instead
// of blocking startup.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, events.BookingsTopic, events.BookingsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, booking events disabled", "error", err)
		return nil
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return producer
}
