package model

import (
	"fmt"
	"time"
)

// InvestmentType tells whether money was lent out or borrowed.
type InvestmentType string

const (
	// InvestmentGiven is money the shop handed to someone else.
	InvestmentGiven InvestmentType = "given"
	// InvestmentTaken is money the shop received from someone else.
	InvestmentTaken InvestmentType = "taken"
)

// ParseInvestmentType converts user input into an InvestmentType.
func ParseInvestmentType(s string) (InvestmentType, error) {
	switch InvestmentType(s) {
	case InvestmentGiven, InvestmentTaken:
		return InvestmentType(s), nil
	default:
		return "", fmt.Errorf("unknown investment type %q (want %q or %q)", s, InvestmentGiven, InvestmentTaken)
	}
}

// Investment is an outstanding loan in either direction. Amount starts
// positive and is reduced by payments made against it.
type Investment struct {
	Date   time.Time      `json:"date"`
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Mobile string         `json:"mobile,omitempty"`
	Type   InvestmentType `json:"type"`
	Amount float64        `json:"amount"`
}
