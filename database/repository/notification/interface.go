package notificationRepo

import (
	"context"

	"linque/models"
)

// NotificationRepository persists notification records. Delivery is handled
// elsewhere; these are the durable copies a client fetches on reconnect.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForAddressee(ctx context.Context, kind, addresseeID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (*models.Notification, error)
	EnsureIndexes() error
}
