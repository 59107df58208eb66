package ledger

import "github.com/Veraticus/creditbook/internal/model"

// TotalCredit is the sum of all customer credits.
func (s *Store) TotalCredit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCreditLocked()
}

// TotalSupplierCredit is the sum of all supplier credits.
func (s *Store) TotalSupplierCredit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSupplierCreditLocked()
}

// TotalInvestment sums the outstanding amounts of one investment type.
func (s *Store) TotalInvestment(typ model.InvestmentType) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalInvestmentLocked(typ)
}

// TotalChecks sums check amounts of one type. An empty status matches all.
func (s *Store) TotalChecks(typ model.CheckType, status model.CheckStatus) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalChecksLocked(typ, status)
}

// Totals returns every derived sum at once.
func (s *Store) Totals() model.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalsLocked()
}

func (s *Store) totalsLocked() model.Totals {
	return model.Totals{
		Credit:           s.totalCreditLocked(),
		SupplierCredit:   s.totalSupplierCreditLocked(),
		InvestmentGiven:  s.totalInvestmentLocked(model.InvestmentGiven),
		InvestmentTaken:  s.totalInvestmentLocked(model.InvestmentTaken),
		PendingChecksIn:  s.totalChecksLocked(model.CheckComing, model.CheckPending),
		PendingChecksOut: s.totalChecksLocked(model.CheckGiven, model.CheckPending),
	}
}

func (s *Store) totalCreditLocked() float64 {
	var sum float64
	for _, c := range s.customers {
		sum += c.Credit
	}
	return sum
}

func (s *Store) totalSupplierCreditLocked() float64 {
	var sum float64
	for _, sup := range s.suppliers {
		sum += sup.Credit
	}
	return sum
}

func (s *Store) totalInvestmentLocked(typ model.InvestmentType) float64 {
	var sum float64
	for _, inv := range s.investments {
		if inv.Type == typ {
			sum += inv.Amount
		}
	}
	return sum
}

func (s *Store) totalChecksLocked(typ model.CheckType, status model.CheckStatus) float64 {
	var sum float64
	for _, c := range s.checks {
		if c.Type == typ && (status == "" || c.Status == status) {
			sum += c.Amount
		}
	}
	return sum
}
