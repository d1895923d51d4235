package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	layoutRepo "linque/database/repository/layout"
	"linque/models"
	"linque/services/booking"
)

// SlotHandler serves the vendor capacity surface: availability summaries,
// bulk corrections, resets and layout-change requests.
type SlotHandler struct {
	Booking booking.BookingService
	Layout  layoutRepo.LayoutRepository
}

func NewSlotHandler(svc booking.BookingService, layout layoutRepo.LayoutRepository) *SlotHandler {
	return &SlotHandler{Booking: svc, Layout: layout}
}

// AvailabilitiesHandler reports available units per bucket for a date.
func (h *SlotHandler) AvailabilitiesHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	date := c.Query("date")
	summary, err := h.Booking.Availability(c.Request.Context(), vendorID, date)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to load availabilities")
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "availabilities": summary})
}

// BulkAdjustHandler applies signed capacity corrections to the date's
// buckets, clamped at zero.
func (h *SlotHandler) BulkAdjustHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	var input struct {
		Date        string                    `json:"date" binding:"required"`
		Adjustments []models.BucketAdjustment `json:"adjustments" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	summary, err := h.Booking.AdjustCapacity(c.Request.Context(), vendorID, input.Date, input.Adjustments)
	if err != nil {
		respondBookingError(c, logger, err, "Failed to adjust slots")
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": input.Date, "availabilities": summary})
}

// ForceResetHandler restores every bucket of the date to default capacity.
func (h *SlotHandler) ForceResetHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Booking.ResetCapacity(c.Request.Context(), vendorID, input.Date); err != nil {
		respondBookingError(c, logger, err, "Failed to reset slots")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slots reset to default capacity", "date": input.Date})
}

// RequestLayoutUpdateHandler records a vendor's floor layout change request
// for offline processing.
func (h *SlotHandler) RequestLayoutUpdateHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	var input struct {
		RestaurantName string `json:"restaurantName"`
		ContactEmail   string `json:"contactEmail"`
		Message        string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req := &models.LayoutUpdateRequest{
		ID:             uuid.New().String(),
		VendorID:       vendorID,
		RestaurantName: input.RestaurantName,
		ContactEmail:   input.ContactEmail,
		Message:        input.Message,
		Status:         models.LayoutRequestPending,
		CreatedAt:      time.Now(),
	}
	if err := h.Layout.Create(c.Request.Context(), req); err != nil {
		logger.Error("Failed to record layout update request", zap.String("vendorId", vendorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record layout update request"})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// ListLayoutRequestsHandler lists recorded layout-change requests.
func (h *SlotHandler) ListLayoutRequestsHandler(c *gin.Context) {
	logger := getLogger(c)

	requests, err := h.Layout.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list layout update requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list layout update requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
