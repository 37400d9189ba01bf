package routes

import (
	"soothe/handlers"
	"soothe/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.SessionAuthMiddleware())

		bookings.POST("", hb.CreateBookingHandler)
		bookings.GET("", hb.ListMyBookingsHandler)
		bookings.GET("/:id", hb.GetBookingHandler)
		bookings.GET("/assigned", middleware.RequireRole("professional"), hb.ListAssignedBookingsHandler)

		// Full status-change surface plus the thin convenience wrappers.
		bookings.PUT("/:id/status", hb.ChangeStatusHandler)
		bookings.POST("/:id/cancel", hb.CancelBookingHandler)
		bookings.POST("/:id/complete", hb.CompleteBookingHandler)

		admin := bookings.Group("")
		admin.Use(middleware.RequireRole("admin"))
		admin.POST("/:id/refund", hb.RefundBookingHandler)
		admin.POST("/:id/assign", hb.AssignProfessionalHandler)
		admin.GET("/:id/suitable-professionals", hb.FindSuitableProfessionalsHandler)
	}
}
