package handlers

import (
	"errors"
	"net/http"

	"soothe/middleware"
	"soothe/models"
	"soothe/services/booking"
	"soothe/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Orders   booking.OrderService
	Status   booking.StatusService
	Matching booking.MatchingService
	Logger   *zap.Logger
}

// NewBookingHandler wires the booking endpoints.
func NewBookingHandler(orders booking.OrderService, status booking.StatusService, matching booking.MatchingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Orders:   orders,
		Status:   status,
		Matching: matching,
		Logger:   logger,
	}
}

// CreateBookingHandler creates one booking atomically.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	// The session owns the booking regardless of what the payload claims.
	input.UserID = middleware.SessionUserID(c)

	created, err := h.Orders.CreateBooking(c.Request.Context(), input)
	if err != nil {
		if ce := booking.AsCreationError(err); ce != nil {
			utils.JSONErrorCode(c, creationStatus(ce.Code), string(ce.Code), ce.Message)
			return
		}
		h.Logger.Error("booking creation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": created})
}

// creationStatus maps a creation error code to its HTTP class: validation
// failures are bad requests, resource conflicts are conflicts.
func creationStatus(code booking.ErrorCode) int {
	switch code {
	case booking.CodeUserNotFound, booking.CodeAddressRequired:
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

// GetBookingHandler returns one booking. Users see only their own;
// admins see any.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Orders.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		h.Logger.Error("booking lookup failed", zap.String("bookingId", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", "")
		return
	}

	if !middleware.HasRole(c, "admin") && b.Booker.UserID != middleware.SessionUserID(c) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// ListMyBookingsHandler returns the session user's bookings.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	bookings, err := h.Orders.ListUserBookings(c.Request.Context(), middleware.SessionUserID(c))
	if err != nil {
		h.Logger.Error("booking list failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// ListAssignedBookingsHandler returns the bookings assigned to the session
// professional.
func (h *BookingHandler) ListAssignedBookingsHandler(c *gin.Context) {
	bookings, err := h.Orders.ListProfessionalBookings(c.Request.Context(), middleware.SessionUserID(c))
	if err != nil {
		h.Logger.Error("assigned booking list failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

type statusChangeRequest struct {
	NewStatus      string  `json:"newStatus"`
	Reason         string  `json:"reason,omitempty"`
	ProfessionalID string  `json:"professionalId,omitempty"`
	RefundAmount   float64 `json:"refundAmount,omitempty"`
	RefundMethod   string  `json:"refundMethod,omitempty"`
}

// ChangeStatusHandler moves a booking to an explicit target status.
func (h *BookingHandler) ChangeStatusHandler(c *gin.Context) {
	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.changeStatus(c, models.BookingStatus(req.NewStatus), req)
}

// CancelBookingHandler is the thin cancel wrapper.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var req statusChangeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}
	h.changeStatus(c, models.StatusCancelled, req)
}

// RefundBookingHandler is the thin refund wrapper (admin only).
func (h *BookingHandler) RefundBookingHandler(c *gin.Context) {
	var req statusChangeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}
	h.changeStatus(c, models.StatusRefunded, req)
}

// AssignProfessionalHandler confirms a booking with a professional.
func (h *BookingHandler) AssignProfessionalHandler(c *gin.Context) {
	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.changeStatus(c, models.StatusConfirmed, req)
}

// CompleteBookingHandler is the thin completion wrapper.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.changeStatus(c, models.StatusCompleted, statusChangeRequest{})
}

func (h *BookingHandler) changeStatus(c *gin.Context, target models.BookingStatus, req statusChangeRequest) {
	actor := actorFromContext(c)
	result, err := h.Status.ChangeStatus(c.Request.Context(), c.Param("id"), actor, booking.TransitionInput{
		Target:         target,
		Reason:         req.Reason,
		ProfessionalID: req.ProfessionalID,
		RefundAmount:   req.RefundAmount,
		RefundMethod:   req.RefundMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrUnauthorized):
			utils.JSONError(c, http.StatusForbidden, "unauthorized", "")
		case errors.Is(err, booking.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		case errors.Is(err, booking.ErrInvalidTransition):
			utils.JSONError(c, http.StatusConflict, "status change rejected", "")
		default:
			h.Logger.Error("status change failed",
				zap.String("bookingId", c.Param("id")),
				zap.String("target", string(target)),
				zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to change status", "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"statusChanged":          true,
		"previousStatus":         result.Previous,
		"refundProcessed":        result.RefundProcessed,
		"notificationsAttempted": result.NotificationsAttempted,
		"booking":                result.Booking,
	})
}

// FindSuitableProfessionalsHandler runs the eligibility filter live.
func (h *BookingHandler) FindSuitableProfessionalsHandler(c *gin.Context) {
	pros, err := h.Matching.FindSuitable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("suitable professionals lookup failed",
			zap.String("bookingId", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to find suitable professionals", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "professionals": pros})
}

// actorFromContext builds the permission context from the session. The
// system role is never resolvable from an HTTP request.
func actorFromContext(c *gin.Context) booking.Actor {
	role := booking.RoleUser
	if middleware.HasRole(c, "admin") {
		role = booking.RoleAdmin
	} else if middleware.HasRole(c, "professional") {
		role = booking.RoleProfessional
	}
	return booking.Actor{ID: middleware.SessionUserID(c), Role: role}
}
