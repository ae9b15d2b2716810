package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	logger.Info("notification repository create", logger.Fields{
		"title":        notification.Title,
		"urgency":      notification.Urgency,
		"designatedTo": notification.DesignatedTo,
	})

	const query = `
INSERT INTO notifications (title, content, urgency, designated_to)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		notification.Title,
		notification.Content,
		string(notification.Urgency),
		string(notification.DesignatedTo),
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		logger.Error("notification repository create failed", err, logger.Fields{
			"title": notification.Title,
		})
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return notification, nil
}

func (r *NotificationRepository) ListForAudience(ctx context.Context, audience domain.NotificationAudience, limit int) ([]domain.Notification, error) {
	logger.Info("notification repository list for audience", logger.Fields{
		"audience": audience,
		"limit":    limit,
	})

	if limit <= 0 {
		limit = 50
	}

	const query = `
SELECT id, title, content, urgency, designated_to, created_at
FROM notifications
WHERE designated_to = $1 OR designated_to = 'all'
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, string(audience), limit)
	if err != nil {
		logger.Error("notification repository list failed", err, logger.Fields{
			"audience": audience,
		})
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			notification domain.Notification
			urgency      string
			designatedTo string
		)
		if err := rows.Scan(
			&notification.ID,
			&notification.Title,
			&notification.Content,
			&urgency,
			&designatedTo,
			&notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notification.Urgency = domain.NotificationUrgency(urgency)
		notification.DesignatedTo = domain.NotificationAudience(designatedTo)
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}
