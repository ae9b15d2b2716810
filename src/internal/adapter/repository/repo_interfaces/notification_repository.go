package repo_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	ListForAudience(ctx context.Context, audience domain.NotificationAudience, limit int) ([]domain.Notification, error)
}
