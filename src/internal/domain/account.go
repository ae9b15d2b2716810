package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind tags which ledger an account lives in. Individual and business
// accounts have independent id spaces, so an id is only meaningful together
// with its kind.
type AccountKind string

const (
	AccountKindIndividual AccountKind = "individual"
	AccountKindBusiness   AccountKind = "business"
)

func (k AccountKind) Valid() bool {
	return k == AccountKindIndividual || k == AccountKindBusiness
}

// AccountRef identifies one account across both ledgers.
type AccountRef struct {
	ID   int64
	Kind AccountKind
}

type Account struct {
	ID           int64
	Kind         AccountKind
	NationalID   string
	PayCode      string
	Username     string
	Email        string
	PhoneNumber  string
	BusinessType string
	PasswordHash string
	PINHash      string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Account) Ref() AccountRef {
	return AccountRef{ID: a.ID, Kind: a.Kind}
}
