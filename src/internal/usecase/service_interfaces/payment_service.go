package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
)

// PaymentProcessor is consumed by collaborators that settle through the
// transfer engine (order payment does).
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (commons.Response[models.ProcessPaymentResponse], error)
}
