package commons

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrRecordNotFound = errors.New("Record not found")

var (
	ErrInvalidAmount       = errors.New("Invalid amount")
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrSelfTransfer        = errors.New("Cannot send money to yourself")
	ErrSourceNotFound      = errors.New("Sender not found")
	ErrInvalidPin          = errors.New("Invalid PIN")
	ErrDestinationNotFound = errors.New("Receiver not found")
	ErrTransferPersistence = errors.New("Unable to complete transfer posting")
)

// InsufficientBalanceError carries the figures a client needs to render a
// precise message: what the account holds and what the transfer required.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance. Available: %s, Required: %s",
		e.Available.StringFixed(2), e.Required.StringFixed(2))
}

func IsInsufficientBalance(err error) bool {
	var target *InsufficientBalanceError
	return errors.As(err, &target)
}
