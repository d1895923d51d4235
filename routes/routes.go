package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"linque/handlers"
	"linque/middleware"
)

// RegisterAuthRoutes registers vendor account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignUpHandler)
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthVendorMiddleware(hb.VendorRepo))
		api.GET("/verify", hb.VerifyHandler)
	}
}

// RegisterReservationRoutes registers customer self-service endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservation")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/reservations", hb.BookReservationHandler)
	}
}

// RegisterVendorRoutes registers the vendor-side reservation book and
// capacity endpoints.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendor")
	{
		api.Use(middleware.JWTAuthVendorMiddleware(hb.VendorRepo))

		api.GET("/reservations", hb.ListReservationsHandler)
		api.GET("/reservations/:id", hb.GetReservationHandler)
		api.POST("/reservations", hb.CreateWalkInHandler)
		api.PUT("/reservations/:id", hb.UpdateReservationHandler)
		api.POST("/reservations/:id/cancel", hb.CancelReservationHandler)
		api.DELETE("/reservations/:id", hb.DeleteReservationHandler)
		api.POST("/reservations/:id/reminder", hb.SendReminderHandler)
		api.GET("/booking-ticker", hb.BookingTickerHandler)

		api.GET("/availabilities", hb.AvailabilitiesHandler)
		api.PATCH("/slots/bulk", hb.BulkAdjustHandler)
		api.POST("/slots/force-reset", hb.ForceResetHandler)
		api.POST("/request-update", hb.RequestLayoutUpdateHandler)
		api.GET("/update-requests", hb.ListLayoutRequestsHandler)

		api.GET("/notifications", hb.ListNotificationsHandler)
		api.PATCH("/notifications/:id/read", hb.MarkNotificationReadHandler)
	}
}

// RegisterNotificationRoutes registers the customer notification feed.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notification")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/notifications", hb.ListNotificationsHandler)
		api.PATCH("/notifications/:id/read", hb.MarkNotificationReadHandler)
	}
}

// RegisterRealtimeRoute registers the websocket endpoint. The token rides a
// query parameter because browsers cannot set headers on websocket upgrades.
func RegisterRealtimeRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", hb.WSConnectHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Linque"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterRealtimeRoute(r, hb)
	RegisterHealthRoute(r)
}
