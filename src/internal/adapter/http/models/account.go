package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type RegisterAccountRequest struct {
	AccountType  string `json:"account_type"`
	NationalID   string `json:"national_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Password     string `json:"password"`
	Pin          string `json:"pin"`
	BusinessType string `json:"business_type"`
}

func (r RegisterAccountRequest) Validate() error {
	var errs []string

	accountType := strings.ToLower(strings.TrimSpace(r.AccountType))
	if accountType != "individual" && accountType != "business" {
		errs = append(errs, "account_type must be individual or business")
	}
	if strings.TrimSpace(r.NationalID) == "" {
		errs = append(errs, "national_id is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "phone_number is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}
	if pin := strings.TrimSpace(r.Pin); pin != "" && !isPinShaped(pin) {
		errs = append(errs, "pin must be 4 to 6 digits")
	}
	if accountType == "business" && strings.TrimSpace(r.BusinessType) == "" {
		errs = append(errs, "business_type is required for business accounts")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type RegisterAccountResponse struct {
	AccountID   int64           `json:"account_id"`
	AccountType string          `json:"account_type"`
	Paycode     string          `json:"paycode"`
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
}

type LookupAccountResponse struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Type         string `json:"type"`
	Paycode      string `json:"paycode"`
	BusinessType string `json:"business_type,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Type         string          `json:"type"`
	Paycode      string          `json:"paycode"`
	BusinessType string          `json:"business_type,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
}

type VerifyPinRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
}

func (r VerifyPinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type VerifyPinResponse struct {
	Type       string `json:"type"`
	IsValidPin bool   `json:"is_valid_pin"`
}

type UpdateProfileRequest struct {
	Paycode     string `json:"paycode"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (r UpdateProfileRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Paycode) == "" {
		errs = append(errs, "paycode is required")
	}
	if strings.TrimSpace(r.Username) == "" && strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "at least one of username, email, phone_number is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isPinShaped(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, ch := range pin {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
