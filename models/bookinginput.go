package models

// BookReservationInput is the customer self-service booking payload.
type BookReservationInput struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	PartySize    int    `json:"partySize" binding:"required"`
	Notes        string `json:"notes"`
	PromoCode    string `json:"promoCode"`
}

// WalkInInput is the vendor-entered booking payload. CustomerID is set only
// when the guest has an app account the vendor looked up.
type WalkInInput struct {
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	PartySize    int    `json:"partySize" binding:"required"`
	CustomerName string `json:"customerName"`
	CustomerID   string `json:"customerId"`
	Notes        string `json:"notes"`
}
