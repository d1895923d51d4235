package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linque/models"
	"linque/services/booking"
)

// ReservationHandler serves customer self-service reservations.
type ReservationHandler struct {
	Booking booking.BookingService
}

func NewReservationHandler(svc booking.BookingService) *ReservationHandler {
	return &ReservationHandler{Booking: svc}
}

// BookReservationHandler books a reservation for the authenticated customer.
func (h *ReservationHandler) BookReservationHandler(c *gin.Context) {
	logger := getLogger(c)

	usrVal, exists := c.Get("user")
	usr, ok := usrVal.(*models.User)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var input models.BookReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, err := h.Booking.Book(c.Request.Context(), usr, input)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to book reservation")
		return
	}

	c.JSON(http.StatusCreated, res)
}

// respondBookingError maps booking service errors onto HTTP statuses.
func respondBookingError(c *gin.Context, logger *zap.Logger, err error, logMsg string) {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}

	var bErr *booking.BookingError
	if errors.As(err, &bErr) {
		status := http.StatusConflict
		switch bErr {
		case booking.ErrNotFound:
			status = http.StatusNotFound
		case booking.ErrSlotUnavailable, booking.ErrNoAvailability, booking.ErrAlreadyReminded:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": bErr.Message, "code": bErr.Code})
		return
	}

	logger.Error(logMsg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
}
