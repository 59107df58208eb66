package ledger

import "fmt"

// TargetKind selects which collection a payment applies to.
type TargetKind int

// Payment target kinds.
const (
	TargetCustomer TargetKind = iota + 1
	TargetSupplier
	TargetInvestment
)

func (k TargetKind) String() string {
	switch k {
	case TargetCustomer:
		return "customer"
	case TargetSupplier:
		return "supplier"
	case TargetInvestment:
		return "investment"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// ParseTargetKind converts "customer", "supplier" or "investment".
func ParseTargetKind(s string) (TargetKind, error) {
	for _, k := range []TargetKind{TargetCustomer, TargetSupplier, TargetInvestment} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown payment target %q", s)
}

// PaymentTarget names one record that can receive a payment.
type PaymentTarget struct {
	ID   string
	Kind TargetKind
}

// ApplyPayment reduces the balance of the selected record.
func (s *Store) ApplyPayment(target PaymentTarget, amount string) Outcome {
	switch target.Kind {
	case TargetCustomer:
		return s.AddPayment(target.ID, amount)
	case TargetSupplier:
		return s.AddSupplierPayment(target.ID, amount)
	case TargetInvestment:
		return s.ProcessInvestmentPayment(target.ID, amount)
	default:
		return InvalidInput
	}
}

// Payee returns the display name of the target record.
func (s *Store) Payee(target PaymentTarget) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch target.Kind {
	case TargetCustomer:
		if i := s.customerIndex(target.ID); i >= 0 {
			return s.customers[i].Name, true
		}
	case TargetSupplier:
		if i := s.supplierIndex(target.ID); i >= 0 {
			return s.suppliers[i].Name, true
		}
	case TargetInvestment:
		if i := s.investmentIndex(target.ID); i >= 0 {
			return s.investments[i].Name, true
		}
	}
	return "", false
}
