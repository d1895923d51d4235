package models

// ReminderPayload is the asynq task payload for a scheduled reservation
// reminder.
type ReminderPayload struct {
	ReservationID string `json:"reservationId"`
	FireDate      string `json:"fireDate"`
}
