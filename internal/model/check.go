package model

import (
	"errors"
	"fmt"
	"strings"
)

// CheckType tells whether a check is incoming or outgoing.
type CheckType string

const (
	// CheckComing is a check the shop received.
	CheckComing CheckType = "coming"
	// CheckGiven is a check the shop wrote.
	CheckGiven CheckType = "given"
)

// ParseCheckType converts user input into a CheckType.
func ParseCheckType(s string) (CheckType, error) {
	switch CheckType(s) {
	case CheckComing, CheckGiven:
		return CheckType(s), nil
	default:
		return "", fmt.Errorf("unknown check type %q (want %q or %q)", s, CheckComing, CheckGiven)
	}
}

// CheckStatus is the lifecycle state of a check.
type CheckStatus string

// A check starts pending and moves exactly once to cleared or bounced.
const (
	CheckPending CheckStatus = "pending"
	CheckCleared CheckStatus = "cleared"
	CheckBounced CheckStatus = "bounced"
)

// Terminal reports whether no further transition is allowed.
func (s CheckStatus) Terminal() bool {
	return s == CheckCleared || s == CheckBounced
}

// Check is a deferred payment instrument. Date is the due date exactly as
// entered; the ledger does not interpret it.
type Check struct {
	ID      string      `json:"id"`
	Number  string      `json:"number"`
	Bank    string      `json:"bank"`
	Name    string      `json:"name"`
	Contact string      `json:"contact"`
	Date    string      `json:"date"`
	Type    CheckType   `json:"type"`
	Status  CheckStatus `json:"status"`
	Amount  float64     `json:"amount"`
}

// CheckInput carries the caller-supplied fields of a new check.
type CheckInput struct {
	Number  string    `json:"number"`
	Bank    string    `json:"bank"`
	Name    string    `json:"name"`
	Contact string    `json:"contact"`
	Date    string    `json:"date"`
	Type    CheckType `json:"type"`
	Amount  float64   `json:"amount"`
}

// Validate ensures every field is present and the amount is positive.
func (in CheckInput) Validate() error {
	var errs []error
	required := []struct {
		value string
		field string
	}{
		{in.Number, "number"},
		{in.Bank, "bank"},
		{in.Name, "name"},
		{in.Contact, "contact"},
		{in.Date, "date"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.field))
		}
	}
	if !(in.Amount > 0) {
		errs = append(errs, fmt.Errorf("amount must be positive"))
	}
	if _, err := ParseCheckType(string(in.Type)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
