package notification

import "context"

// NotificationService persists a notification record and attempts a realtime
// push. Both are best-effort relative to the workflow that triggered them:
// failures are logged and swallowed, never returned to the booking caller.
type NotificationService interface {
	NotifyCustomer(ctx context.Context, customerID, message string)
	NotifyVendor(ctx context.Context, vendorID, message string)
}
