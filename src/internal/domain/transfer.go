package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

// Transfer records exist only for fully-validated, committed postings, so the
// single status value is terminal.
const TransferStatusCompleted TransferStatus = "completed"

const TransferTypeNormal = "Normal transfer"

// TransferRecord is immutable once written. The charge is deducted from the
// sender on top of the amount; the receiver is credited the amount only.
type TransferRecord struct {
	ID                   string
	TransactionReference string
	TransferType         string
	Sender               AccountRef
	Receiver             AccountRef
	Amount               decimal.Decimal
	Charge               decimal.Decimal
	Status               TransferStatus
	CreatedAt            time.Time
}

// TransferPlan is the input to the atomic posting: both parties already
// resolved, amounts already validated.
type TransferPlan struct {
	Sender   AccountRef
	Receiver AccountRef
	Amount   decimal.Decimal
	Charge   decimal.Decimal
}

func (p TransferPlan) TotalDebit() decimal.Decimal {
	return p.Amount.Add(p.Charge)
}

// LedgerFilter narrows a history query; zero values mean "no filter".
type LedgerFilter struct {
	Year  int
	Month int
	Day   int
}
