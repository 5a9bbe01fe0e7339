// File: carebook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carebook/config"
	"carebook/database"
	bookingRepo "carebook/database/repository/booking"
	hourpackageRepo "carebook/database/repository/hourpackage"
	trainerRepo "carebook/database/repository/trainer"
	"carebook/handlers"
	"carebook/middleware"
	"carebook/routes"
	"carebook/services/booking"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitPaymentCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	trainers := trainerRepo.NewMongoTrainerRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	packages := hourpackageRepo.NewMongoPackageRepo()

	// services.
	cutoff := booking.CutoffPolicy{
		Location:   config.BookingLocation(),
		CutoffHour: config.AppConfig.CutoffHour,
	}
	validator := &booking.DefaultBookingValidationService{
		BookingRepo: bookings,
		TrainerRepo: trainers,
		PackageRepo: packages,
		Cutoff:      cutoff,
	}
	gate := booking.NewPaymentIntentGate(booking.NewStripeCheckoutProvider(), "gbp", logger)
	sessionService := &booking.DefaultBookingSessionService{
		Validator:    validator,
		TrainerRepo:  trainers,
		PackageRepo:  packages,
		BookingRepo:  bookings,
		Gate:         gate,
		SessionCache: utils.GetSessionCacheClient(),
		PaymentCache: utils.GetPaymentCacheClient(),
	}

	bookingHandler := handlers.NewBookingHandler(sessionService, validator, cutoff, logger)
	routes.RegisterRoutes(router, bookingHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetPaymentCacheClient()},
		database.MongoClient,
	)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("carebook listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("mongo disconnect: %v", err)
	}
}
