// Package model defines the ledger records shared by the store, storage and transports.
package model

import "regexp"

// mobilePattern matches a local mobile number: exactly nine ASCII digits.
var mobilePattern = regexp.MustCompile(`^\d{9}$`)

// ValidMobile reports whether mobile is exactly nine digits.
func ValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// Customer is someone who buys on credit. A positive Credit means the
// customer owes the shop; a negative Credit means the shop owes them.
type Customer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Mobile string  `json:"mobile"`
	Credit float64 `json:"credit"`
}

// Supplier is someone the shop buys from. Credit is the amount the shop
// still owes the supplier.
type Supplier struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Mobile string  `json:"mobile"`
	Credit float64 `json:"credit"`
}
