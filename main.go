package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"linque/config"
	"linque/cron"
	"linque/database"
	bookingRepoPkg "linque/database/repository/booking"
	layoutRepoPkg "linque/database/repository/layout"
	notificationRepoPkg "linque/database/repository/notification"
	reservationRepoPkg "linque/database/repository/reservation"
	slotRepoPkg "linque/database/repository/slot"
	userRepoPkg "linque/database/repository/user"
	vendorRepoPkg "linque/database/repository/vendor"
	"linque/handlers"
	"linque/middleware"
	"linque/routes"
	"linque/services/booking"
	"linque/services/notification"
	"linque/services/realtime"
	"linque/services/vendor"
	"linque/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()
	ledger := bookingRepoPkg.NewMongoBookingRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	vendorRepo := vendorRepoPkg.NewMongoVendorRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	layoutRepo := layoutRepoPkg.NewMongoLayoutRepo()

	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := reservationRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure reservation indexes: %v", err)
	}
	if err := notificationRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure notification indexes: %v", err)
	}
	if err := vendorRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure vendor indexes: %v", err)
	}

	// services.
	registry := realtime.NewRegistry(logger)

	notificationService := &notification.DefaultNotificationService{
		Repo:     notificationRepo,
		Registry: registry,
		Logger:   logger,
	}

	reminderQueue := cron.NewReminderQueue(logger)

	availCache := &booking.RedisAvailabilityCache{
		Client: utils.GetCacheClient(),
		Logger: logger,
	}

	bookingService := &booking.DefaultBookingService{
		SlotRepo:        slotRepo,
		ReservationRepo: reservationRepo,
		Ledger:          ledger,
		Users:           userRepo,
		NotificationSvc: notificationService,
		Reminders:       reminderQueue,
		AvailCache:      availCache,
		Logger:          logger,
	}

	vendorService := &vendor.DefaultVendorService{
		Repo:   vendorRepo,
		Logger: logger,
	}

	// Background reminder worker.
	cron.InitReminderWorker(bookingService)

	// handlers.
	authHandler := handlers.NewVendorAuthHandler(vendorService)
	reservationHandler := handlers.NewReservationHandler(bookingService)
	vendorReservationHandler := handlers.NewVendorReservationHandler(bookingService, reservationRepo)
	slotHandler := handlers.NewSlotHandler(bookingService, layoutRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	wsHandler := handlers.NewWSHandler(registry)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		VendorRepo: vendorRepo,
		UserRepo:   userRepo,

		SignUpHandler: authHandler.SignUpHandler,
		LoginHandler:  authHandler.LoginHandler,
		VerifyHandler: authHandler.VerifyHandler,

		BookReservationHandler: reservationHandler.BookReservationHandler,

		ListReservationsHandler:  vendorReservationHandler.ListReservationsHandler,
		GetReservationHandler:    vendorReservationHandler.GetReservationHandler,
		CreateWalkInHandler:      vendorReservationHandler.CreateWalkInHandler,
		UpdateReservationHandler: vendorReservationHandler.UpdateReservationHandler,
		CancelReservationHandler: vendorReservationHandler.CancelReservationHandler,
		DeleteReservationHandler: vendorReservationHandler.DeleteReservationHandler,
		SendReminderHandler:      vendorReservationHandler.SendReminderHandler,
		BookingTickerHandler:     vendorReservationHandler.BookingTickerHandler,

		AvailabilitiesHandler:      slotHandler.AvailabilitiesHandler,
		BulkAdjustHandler:          slotHandler.BulkAdjustHandler,
		ForceResetHandler:          slotHandler.ForceResetHandler,
		RequestLayoutUpdateHandler: slotHandler.RequestLayoutUpdateHandler,
		ListLayoutRequestsHandler:  slotHandler.ListLayoutRequestsHandler,

		ListNotificationsHandler:    notificationHandler.ListNotificationsHandler,
		MarkNotificationReadHandler: notificationHandler.MarkNotificationReadHandler,

		WSConnectHandler: wsHandler.ConnectHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
