package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reservationRepo "linque/database/repository/reservation"
	"linque/models"
	"linque/services/booking"
)

// VendorReservationHandler serves the vendor-side reservation book: listing,
// walk-in entry, edits, cancellation and reminders.
type VendorReservationHandler struct {
	Booking      booking.BookingService
	Reservations reservationRepo.ReservationRepository
}

func NewVendorReservationHandler(svc booking.BookingService, repo reservationRepo.ReservationRepository) *VendorReservationHandler {
	return &VendorReservationHandler{Booking: svc, Reservations: repo}
}

// ListReservationsHandler lists the vendor's reservations, optionally
// narrowed by date, period, status or origin query parameters.
func (h *VendorReservationHandler) ListReservationsHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	filter := models.ReservationFilter{
		RestaurantID: vendorID,
		Date:         c.Query("date"),
		Period:       c.Query("period"),
		Status:       c.Query("status"),
		Origin:       c.Query("origin"),
	}

	reservations, err := h.Reservations.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list reservations", zap.String("vendorId", vendorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// GetReservationHandler returns a single reservation by ID.
func (h *VendorReservationHandler) GetReservationHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	res, err := h.Reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		logger.Warn("Reservation not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// CreateWalkInHandler enters a walk-in reservation for the vendor.
func (h *VendorReservationHandler) CreateWalkInHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	var input models.WalkInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, err := h.Booking.CreateWalkIn(c.Request.Context(), vendorID, input)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to create walk-in reservation")
		return
	}

	c.JSON(http.StatusCreated, res)
}

// UpdateReservationHandler applies field edits, swapping slot attribution
// when the edit moves the reservation to a different bucket or date.
func (h *VendorReservationHandler) UpdateReservationHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	var upd models.ReservationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, err := h.Booking.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to update reservation")
		return
	}

	c.JSON(http.StatusOK, res)
}

// CancelReservationHandler cancels the reservation, returning its slot unit.
func (h *VendorReservationHandler) CancelReservationHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	res, err := h.Booking.Cancel(c.Request.Context(), id)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to cancel reservation")
		return
	}

	c.JSON(http.StatusOK, res)
}

// DeleteReservationHandler removes the reservation entirely.
func (h *VendorReservationHandler) DeleteReservationHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	if err := h.Booking.Delete(c.Request.Context(), id); err != nil {
		respondBookingError(c, logger, err, "Failed to delete reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}

// SendReminderHandler triggers the one-shot reminder for a reservation.
func (h *VendorReservationHandler) SendReminderHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	if err := h.Booking.SendReminder(c.Request.Context(), id); err != nil {
		respondBookingError(c, logger, err, "Failed to send reminder")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent"})
}

// BookingTickerHandler returns the newest reservations for the vendor's
// live ticker, optionally narrowed to a date and time.
func (h *VendorReservationHandler) BookingTickerHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	reservations, err := h.Reservations.Ticker(c.Request.Context(), vendorID, c.Query("date"), c.Query("time"), limit)
	if err != nil {
		logger.Error("Failed to load booking ticker", zap.String("vendorId", vendorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking ticker"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}
