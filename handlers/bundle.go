package handlers

import (
	"github.com/gin-gonic/gin"

	userRepoPkg "linque/database/repository/user"
	vendorRepoPkg "linque/database/repository/vendor"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration. The repos are included because auth middleware needs them.
type HandlerBundle struct {
	VendorRepo vendorRepoPkg.VendorRepository
	UserRepo   userRepoPkg.UserRepository

	// Vendor auth endpoints
	SignUpHandler gin.HandlerFunc
	LoginHandler  gin.HandlerFunc
	VerifyHandler gin.HandlerFunc

	// Customer endpoints
	BookReservationHandler gin.HandlerFunc

	// Vendor reservation endpoints
	ListReservationsHandler  gin.HandlerFunc
	GetReservationHandler    gin.HandlerFunc
	CreateWalkInHandler      gin.HandlerFunc
	UpdateReservationHandler gin.HandlerFunc
	CancelReservationHandler gin.HandlerFunc
	DeleteReservationHandler gin.HandlerFunc
	SendReminderHandler      gin.HandlerFunc
	BookingTickerHandler     gin.HandlerFunc

	// Vendor capacity endpoints
	AvailabilitiesHandler      gin.HandlerFunc
	BulkAdjustHandler          gin.HandlerFunc
	ForceResetHandler          gin.HandlerFunc
	RequestLayoutUpdateHandler gin.HandlerFunc
	ListLayoutRequestsHandler  gin.HandlerFunc

	// Notification endpoints
	ListNotificationsHandler    gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc

	// Realtime endpoint
	WSConnectHandler gin.HandlerFunc
}
