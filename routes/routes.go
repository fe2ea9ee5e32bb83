package routes

import (
	"net/http"
	"time"

	"vehicleservice/handlers"
	"vehicleservice/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	staffRoles   = []string{"admin", "manager", "staff"}
	managerRoles = []string{"admin", "manager"}
)

// RegisterSlotRoutes registers slot availability endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.GET("", hb.GetSlotsHandler)
		api.GET("/week", hb.GetWeekSlotsHandler)
		api.GET("/check", hb.CheckSlotHandler)
		api.GET("/info", hb.SlotInfoHandler)

		api.POST("/refresh", middleware.JWTAuthMiddleware(), middleware.RequireRole(staffRoles...), hb.RefreshSlotsHandler)
	}
}

// RegisterCatalogRoutes registers the public pricing and payment method endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/pricing", hb.PricingHandler)

	payments := r.Group("/api/payments")
	{
		payments.GET("/methods", hb.PaymentMethodsHandler)
		payments.GET("/info", hb.PaymentInfoHandler)
		payments.GET("/fees", hb.PaymentFeesHandler)
	}
}

// RegisterBookingRoutes registers booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("", hb.ListBookingsHandler)
		api.GET("/search", hb.SearchBookingsHandler)
		api.GET("/upcoming", hb.UpcomingHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.GET("/:id/assignments", hb.BookingAssignmentsHandler)

		// Mutations require authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.CreateBookingHandler)
		protected.PUT("/:id", hb.UpdateBookingHandler)
		protected.POST("/:id/payments", hb.ProcessPaymentHandler)
		protected.POST("/:id/cancel", hb.CancelBookingHandler)

		// Staff-only actions.
		staff := protected.Group("")
		staff.Use(middleware.RequireRole(staffRoles...))
		staff.DELETE("/:id", hb.DeleteBookingHandler)
		staff.PUT("/:id/payment", hb.UpdatePaymentHandler)
		staff.POST("/:id/refund", hb.RefundBookingHandler)
	}
}

// RegisterTechnicianRoutes registers technician management endpoints.
func RegisterTechnicianRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/technicians")
	{
		api.GET("", hb.ListTechniciansHandler)
		api.GET("/overview", hb.TechnicianOverviewHandler)
		api.GET("/:id", hb.GetTechnicianHandler)
		api.GET("/:id/stats", hb.TechnicianStatsHandler)
		api.GET("/:id/assignments", hb.TechnicianWorkHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(managerRoles...))
		protected.POST("", hb.CreateTechnicianHandler)
		protected.PUT("/:id", hb.UpdateTechnicianHandler)
		protected.DELETE("/:id", hb.DeactivateTechnicianHandler)
	}
}

// RegisterAssignmentRoutes registers technician assignment endpoints.
func RegisterAssignmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assignments")
	{
		api.GET("", hb.ListAssignmentsHandler)
		api.GET("/:id", hb.GetAssignmentHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(staffRoles...))
		protected.POST("", hb.AssignHandler)
		protected.POST("/:id/start", hb.StartAssignmentHandler)
		protected.POST("/:id/complete", hb.CompleteAssignmentHandler)
		protected.POST("/:id/cancel", hb.CancelAssignmentHandler)
		protected.PUT("/:id/status", hb.UpdateStatusHandler)
		protected.DELETE("/:id", hb.RemoveAssignmentHandler)
		protected.POST("/cleanup", middleware.RequireRole(managerRoles...), hb.CleanupHandler)
	}
}

// RegisterHealthRoute registers the health endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterTechnicianRoutes(r, hb)
	RegisterAssignmentRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
