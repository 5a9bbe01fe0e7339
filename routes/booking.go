package routes

import (
	"carebook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/validate", bh.ValidateBooking)                          // One-shot validation
		booking.POST("/session", bh.StartBookingSession)                       // Phase 1: Start session
		booking.GET("/session/:sessionID", bh.GetBookingSession)               // Fetch session
		booking.DELETE("/session/:sessionID", bh.CancelBookingSession)         // Abandon session
		booking.POST("/session/:sessionID/checkout", bh.ConfirmBookingSession) // Phase 2: Confirm + pay
		booking.GET("/earliest-date", bh.EarliestBookableDate)                 // Date picker hint
	}
}
