package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type NotificationService struct {
	notificationRepo repo_interfaces.NotificationRepository
}

func NewNotificationService(notificationRepo repo_interfaces.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) Create(ctx context.Context, req models.CreateNotificationRequest) (commons.Response[models.NotificationResponse], error) {
	logger.Info("notification service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.NotificationResponse]("validation failed", err.Error()), err
	}

	notification := domain.Notification{
		Title:        strings.TrimSpace(req.Title),
		Content:      strings.TrimSpace(req.Content),
		Urgency:      domain.NotificationUrgency(strings.ToLower(strings.TrimSpace(req.Urgency))),
		DesignatedTo: domain.NotificationAudience(strings.ToLower(strings.TrimSpace(req.DesignatedTo))),
	}

	created, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		logger.Error("notification service create failed", err, logger.Fields{
			"title": notification.Title,
		})
		return commons.ErrorResponse[models.NotificationResponse]("failed to create notification", "Unable to create notification right now"), err
	}

	return commons.SuccessResponse("notification created successfully", mapNotification(created)), nil
}

func (s *NotificationService) List(ctx context.Context, audience string, limit int) (commons.Response[[]models.NotificationResponse], error) {
	logger.Info("notification service list request", logger.Fields{
		"audience": audience,
		"limit":    limit,
	})

	parsed := domain.NotificationAudience(strings.ToLower(strings.TrimSpace(audience)))
	if !parsed.Valid() {
		err := fmt.Errorf("audience must be individual, business, or all")
		return commons.ErrorResponse[[]models.NotificationResponse]("validation failed", err.Error()), err
	}

	notifications, err := s.notificationRepo.ListForAudience(ctx, parsed, limit)
	if err != nil {
		logger.Error("notification service list failed", err, logger.Fields{
			"audience": audience,
		})
		return commons.ErrorResponse[[]models.NotificationResponse]("failed to list notifications", "Unable to list notifications right now"), err
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, mapNotification(notification))
	}

	return commons.SuccessResponse("notifications fetched successfully", responses), nil
}

// TransferCompleted writes a notice for each party of a completed transfer.
// It implements service_interfaces.TransferNotifier; the engine calls it
// after commit and only logs a failure.
func (s *NotificationService) TransferCompleted(ctx context.Context, record domain.TransferRecord, senderName string, receiverName string) error {
	sent := domain.Notification{
		Title:        "Payment sent",
		Content:      fmt.Sprintf("You sent %s to %s (ref %s).", record.Amount.StringFixed(2), receiverName, record.TransactionReference),
		Urgency:      domain.NotificationUrgencyMedium,
		DesignatedTo: domain.NotificationAudience(record.Sender.Kind),
	}
	received := domain.Notification{
		Title:        "Payment received",
		Content:      fmt.Sprintf("You received %s from %s (ref %s).", record.Amount.StringFixed(2), senderName, record.TransactionReference),
		Urgency:      domain.NotificationUrgencyMedium,
		DesignatedTo: domain.NotificationAudience(record.Receiver.Kind),
	}

	if _, err := s.notificationRepo.Create(ctx, sent); err != nil {
		return fmt.Errorf("notify sender: %w", err)
	}
	if _, err := s.notificationRepo.Create(ctx, received); err != nil {
		return fmt.Errorf("notify receiver: %w", err)
	}

	return nil
}

func mapNotification(notification domain.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		ID:           notification.ID,
		Title:        notification.Title,
		Content:      notification.Content,
		Urgency:      string(notification.Urgency),
		DesignatedTo: string(notification.DesignatedTo),
		Date:         notification.CreatedAt.Format(time.RFC3339),
	}
}
