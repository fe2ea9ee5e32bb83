// File: vehicleservice/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicleservice/config"
	"vehicleservice/cron"
	"vehicleservice/database"
	"vehicleservice/database/repository"
	"vehicleservice/handlers"
	"vehicleservice/middleware"
	"vehicleservice/routes"
	"vehicleservice/services/assignment"
	"vehicleservice/services/booking"
	"vehicleservice/services/payment"
	"vehicleservice/services/pricing"
	"vehicleservice/services/slots"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	loc := config.Location()

	// Storage.
	var (
		store       *repository.Store
		mongoClient *mongo.Client
	)
	if config.UsesMongo() {
		database.InitDB()
		mongoClient = database.MongoClient
		store = repository.NewMongoStore()
	} else {
		logger.Warn("using in-memory store; data is lost on restart")
		store = repository.NewMemoryStore()
	}

	// Slot cache and job queue.
	var (
		slotCache    slots.SlotCache = slots.NopCache{}
		redisClients []*redis.Client
		enqueue      handlers.CleanupEnqueuer
	)
	if config.AppConfig.SlotCacheEnabled {
		utils.InitCache()
		redisClients = append(redisClients, utils.GetCacheClient())
		slotCache = slots.NewRedisSlotCache(utils.GetCacheClient(), config.AppConfig.SlotCacheTTL, utils.ComponentLogger("slot-cache"))
	}
	if config.AppConfig.JobQueueEnabled {
		utils.InitQueueClient()
		redisClients = append(redisClients, utils.GetQueueClient())
	}

	// Engines.
	slotEngine := slots.NewEngine(utils.ComponentLogger("slots"))
	pricingEngine := pricing.NewEngine(utils.ComponentLogger("pricing"))
	gateway := payment.NewSimulatedGateway(
		payment.WithDelay(config.AppConfig.CardGatewayDelay),
		payment.WithFailureRate(config.AppConfig.CardFailureRate),
	)
	paymentEngine := payment.NewEngine(utils.ComponentLogger("payment"), payment.DefaultStrategies(gateway)...)

	// Services.
	checker := slots.NewChecker(slotEngine, store.Bookings, slotCache, utils.ComponentLogger("slots"))
	bookingService := booking.NewBookingService(store.Bookings, checker, pricingEngine, paymentEngine, loc, utils.ComponentLogger("booking"))
	allocator := assignment.NewWorkloadAllocator(
		store.Assignments,
		store.Technicians,
		store.Bookings,
		config.AppConfig.DefaultMaxDailyWorkload,
		utils.ComponentLogger("assignment"),
	)
	bookingService.Assignments = allocator

	if config.AppConfig.JobQueueEnabled {
		cron.InitCleanupWorker(allocator, utils.ComponentLogger("worker"))
		queue := asynq.NewClient(cron.RedisOpt())
		defer queue.Close()
		enqueue = func(ctx context.Context, requestedBy string) (string, error) {
			info, err := cron.EnqueueCleanup(ctx, queue, requestedBy)
			if err != nil {
				return "", err
			}
			return info.ID, nil
		}
	}

	storeName := config.AppConfig.StoreDriver
	utils.StartHealthMonitor(storeName, redisClients, mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	slotHandler := handlers.NewSlotHandler(bookingService, slotEngine)
	catalogHandler := handlers.NewCatalogHandler(pricingEngine, paymentEngine)
	bookingHandler := handlers.NewBookingHandler(bookingService, allocator, loc)
	technicianHandler := handlers.NewTechnicianHandler(allocator)
	assignmentHandler := handlers.NewAssignmentHandler(allocator, enqueue)
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) utils.HealthStatus {
		return utils.CheckHealth(ctx, storeName, redisClients, mongoClient)
	})

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Slot endpoints.
		GetSlotsHandler:     slotHandler.GetSlots,
		GetWeekSlotsHandler: slotHandler.GetWeekSlots,
		CheckSlotHandler:    slotHandler.CheckSlot,
		SlotInfoHandler:     slotHandler.SlotInfo,
		RefreshSlotsHandler: slotHandler.RefreshSlots,

		// Catalogue endpoints.
		PricingHandler:        catalogHandler.Price,
		PaymentMethodsHandler: catalogHandler.Methods,
		PaymentInfoHandler:    catalogHandler.Info,
		PaymentFeesHandler:    catalogHandler.Fees,

		// Booking endpoints.
		CreateBookingHandler:      bookingHandler.CreateBooking,
		ListBookingsHandler:       bookingHandler.ListBookings,
		SearchBookingsHandler:     bookingHandler.SearchBookings,
		UpcomingHandler:           bookingHandler.Upcoming,
		GetBookingHandler:         bookingHandler.GetBooking,
		UpdateBookingHandler:      bookingHandler.UpdateBooking,
		DeleteBookingHandler:      bookingHandler.DeleteBooking,
		ProcessPaymentHandler:     bookingHandler.ProcessPayment,
		UpdatePaymentHandler:      bookingHandler.UpdatePayment,
		RefundBookingHandler:      bookingHandler.Refund,
		CancelBookingHandler:      bookingHandler.Cancel,
		BookingAssignmentsHandler: bookingHandler.ListForBooking,

		// Technician endpoints.
		CreateTechnicianHandler:     technicianHandler.CreateTechnician,
		ListTechniciansHandler:      technicianHandler.ListTechnicians,
		GetTechnicianHandler:        technicianHandler.GetTechnician,
		UpdateTechnicianHandler:     technicianHandler.UpdateTechnician,
		DeactivateTechnicianHandler: technicianHandler.DeactivateTechnician,
		TechnicianStatsHandler:      technicianHandler.Stats,
		TechnicianWorkHandler:       technicianHandler.Work,
		TechnicianOverviewHandler:   technicianHandler.Overview,

		// Assignment endpoints.
		AssignHandler:             assignmentHandler.Assign,
		ListAssignmentsHandler:    assignmentHandler.ListAssignments,
		GetAssignmentHandler:      assignmentHandler.GetAssignment,
		StartAssignmentHandler:    assignmentHandler.Start,
		CompleteAssignmentHandler: assignmentHandler.Complete,
		CancelAssignmentHandler:   assignmentHandler.Cancel,
		UpdateStatusHandler:       assignmentHandler.UpdateStatus,
		RemoveAssignmentHandler:   assignmentHandler.Remove,
		CleanupHandler:            assignmentHandler.Cleanup,

		HealthHandler: healthHandler.Health,
	}

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

	logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", storeName))
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
	if mongoClient != nil {
		if err := database.Close(ctx); err != nil {
			logger.Warn("main: closing mongo", zap.Error(err))
		}
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
