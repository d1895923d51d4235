package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	notificationRepo "linque/database/repository/notification"
	"linque/models"
	"linque/services/realtime"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	Registry *realtime.Registry
	Logger   *zap.Logger
}

func (s *DefaultNotificationService) NotifyCustomer(ctx context.Context, customerID, message string) {
	s.dispatch(ctx, models.NotificationKindCustomer, customerID, message)
}

func (s *DefaultNotificationService) NotifyVendor(ctx context.Context, vendorID, message string) {
	s.dispatch(ctx, models.NotificationKindVendor, vendorID, message)
}

func (s *DefaultNotificationService) dispatch(ctx context.Context, kind, addresseeID, message string) {
	if addresseeID == "" {
		// Walk-ins without an app account have no notification target.
		return
	}

	n := &models.Notification{
		ID:          uuid.New().String(),
		Kind:        kind,
		AddresseeID: addresseeID,
		Message:     message,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("failed to persist notification",
			zap.String("kind", kind),
			zap.String("addressee", addresseeID),
			zap.Error(err))
	}

	s.Registry.PushIfConnected(addresseeID, realtime.Push{Kind: kind, Message: message})
}
