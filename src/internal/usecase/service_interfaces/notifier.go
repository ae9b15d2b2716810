package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
)

// TransferNotifier is the post-commit side effect of a transfer. Delivery is
// best effort: callers log a returned error and move on, never unwinding the
// transfer.
type TransferNotifier interface {
	TransferCompleted(ctx context.Context, record domain.TransferRecord, senderName string, receiverName string) error
}
