package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Outcome reports what an amend operation did. Anything other than OK
// means the ledger was left unchanged.
type Outcome int

const (
	// OK means the change was applied.
	OK Outcome = iota
	// InvalidInput means the amount or requested transition was rejected.
	InvalidInput
	// NotFound means no record has the given id.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case InvalidInput:
		return "invalid input"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseAmount parses a finite number from user input. Surrounding spaces
// are ignored; anything else that is not a number is rejected.
func ParseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParsePositiveAmount is ParseAmount restricted to values above zero.
func ParsePositiveAmount(s string) (float64, bool) {
	v, ok := ParseAmount(s)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
