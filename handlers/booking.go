package handlers

import (
	"errors"
	"net/http"
	"time"

	"carebook/models"
	"carebook/services/booking"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the validation and session endpoints.
type BookingHandler struct {
	Sessions  booking.BookingSessionService
	Validator booking.BookingValidationService
	Cutoff    booking.CutoffPolicy
	Logger    *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(sessions booking.BookingSessionService, validator booking.BookingValidationService, cutoff booking.CutoffPolicy, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Sessions:  sessions,
		Validator: validator,
		Cutoff:    cutoff,
		Logger:    logger,
	}
}

// ValidateBooking runs a one-shot validation pass without opening a session.
func (h *BookingHandler) ValidateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if len(req.Slots) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "at least one session slot is required")
		return
	}

	result, err := h.Validator.Validate(c.Request.Context(), req)
	if err != nil {
		h.respondValidationError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BookingResponse{Validation: result})
}

// StartBookingSession validates the request and opens a cached session.
func (h *BookingHandler) StartBookingSession(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if len(req.Slots) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "at least one session slot is required")
		return
	}

	resp, err := h.Sessions.InitiateSession(c.Request.Context(), req, c.GetString("userID"), c.Request.UserAgent())
	if err != nil {
		h.respondValidationError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBookingSession returns the cached session context.
func (h *BookingHandler) GetBookingSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", err.Error())
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelBookingSession drops the session and its payment lineage.
func (h *BookingHandler) CancelBookingSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Sessions.CancelSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "failed to cancel booking session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": sessionID})
}

// ConfirmBookingSession drives the payment gate and returns the checkout URL
// or a classified failure.
func (h *BookingHandler) ConfirmBookingSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	resp, err := h.Sessions.ConfirmSession(c.Request.Context(), sessionID)
	if err != nil {
		h.Logger.Warn("checkout confirmation failed",
			zap.String("sessionID", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusConflict, "unable to confirm booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EarliestBookableDate tells the date picker where to start.
func (h *BookingHandler) EarliestBookableDate(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"earliestDate": h.Cutoff.EarliestBookableDate(now),
		"evaluatedAt":  now.In(h.Cutoff.Location).Format(time.RFC3339),
	})
}

// respondValidationError distinguishes "unable to validate" (collaborator
// failure, retryable) from malformed input.
func (h *BookingHandler) respondValidationError(c *gin.Context, err error) {
	var unavailable *booking.ValidationUnavailableError
	if errors.As(err, &unavailable) {
		utils.JSONError(c, http.StatusServiceUnavailable,
			"unable to validate booking", "We couldn't check your booking right now. Please try again.")
		return
	}
	utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
}
