package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints.
	CreateBookingHandler             gin.HandlerFunc
	GetBookingHandler                gin.HandlerFunc
	ListMyBookingsHandler            gin.HandlerFunc
	ListAssignedBookingsHandler      gin.HandlerFunc
	ChangeStatusHandler              gin.HandlerFunc
	CancelBookingHandler             gin.HandlerFunc
	RefundBookingHandler             gin.HandlerFunc
	AssignProfessionalHandler        gin.HandlerFunc
	CompleteBookingHandler           gin.HandlerFunc
	FindSuitableProfessionalsHandler gin.HandlerFunc

	// Payment endpoints.
	PaymentWebhookHandler gin.HandlerFunc
}
