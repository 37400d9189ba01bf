package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soothe/config"
	"soothe/cron"
	"soothe/database"
	"soothe/database/repository"
	"soothe/handlers"
	"soothe/middleware"
	"soothe/routes"
	"soothe/services/booking"
	"soothe/services/notification"
	"soothe/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.InitDispatchCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookingRepo := repository.NewMongoBookingRepo()
	userRepo := repository.NewMongoUserRepo()
	professionalRepo := repository.NewMongoProfessionalRepo()
	subscriptionRepo := repository.NewMongoSubscriptionRepo()
	voucherRepo := repository.NewMongoVoucherRepo()
	couponRepo := repository.NewMongoCouponRepo()
	ledgerRepo := repository.NewMongoLedgerRepo()
	sequenceRepo := repository.NewMongoSequenceRepo()

	// Notification delivery: handlers enqueue, the worker drains through
	// the inline dispatcher.
	mailer := notification.NewMailer()
	inlineDispatcher := notification.NewDefaultDispatcher(userRepo, professionalRepo, mailer)
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	queuedDispatcher := notification.NewQueuedDispatcher(asynqClient)
	cron.InitDispatchWorker(inlineDispatcher)

	// services.
	txRunner := database.NewMongoTxRunner(database.MongoClient)
	ledgerWriter := booking.NewLedgerWriter(ledgerRepo, sequenceRepo)
	matchingService := &booking.DefaultMatchingService{
		Professionals: professionalRepo,
		Bookings:      bookingRepo,
	}
	orderService := booking.NewOrderService(
		bookingRepo,
		userRepo,
		subscriptionRepo,
		voucherRepo,
		couponRepo,
		sequenceRepo,
		txRunner,
		matchingService,
		queuedDispatcher,
		ledgerWriter,
	)
	statusService := &booking.DefaultStatusService{
		Bookings: bookingRepo,
		Notifier: queuedDispatcher,
		Ledger:   ledgerWriter,
	}

	bookingHandler := handlers.NewBookingHandler(orderService, statusService, matchingService, logger)
	paymentHandler := handlers.NewPaymentWebhookHandler(orderService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateBookingHandler:             bookingHandler.CreateBookingHandler,
		GetBookingHandler:                bookingHandler.GetBookingHandler,
		ListMyBookingsHandler:            bookingHandler.ListMyBookingsHandler,
		ListAssignedBookingsHandler:      bookingHandler.ListAssignedBookingsHandler,
		ChangeStatusHandler:              bookingHandler.ChangeStatusHandler,
		CancelBookingHandler:             bookingHandler.CancelBookingHandler,
		RefundBookingHandler:             bookingHandler.RefundBookingHandler,
		AssignProfessionalHandler:        bookingHandler.AssignProfessionalHandler,
		CompleteBookingHandler:           bookingHandler.CompleteBookingHandler,
		FindSuitableProfessionalsHandler: bookingHandler.FindSuitableProfessionalsHandler,
		PaymentWebhookHandler:            paymentHandler.HandleWebhook,
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{
		utils.GetCacheClient(),
		utils.GetAuthCacheClient(),
		utils.GetDispatchCacheClient(),
	}, database.MongoClient)

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
