package ledger

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
)

// AddInvestment records money lent out or borrowed, dated now.
func (s *Store) AddInvestment(name, mobile, amount string, typ model.InvestmentType) (model.Investment, error) {
	v, ok := ParsePositiveAmount(amount)
	if !ok {
		return model.Investment{}, fmt.Errorf("%w: %q", common.ErrInvalidAmount, amount)
	}
	if _, err := model.ParseInvestmentType(string(typ)); err != nil {
		return model.Investment{}, fmt.Errorf("%w: %v", common.ErrInvalidInvestmentType, err)
	}

	s.mu.Lock()
	inv := model.Investment{
		ID:     s.newID(),
		Name:   name,
		Mobile: mobile,
		Amount: v,
		Type:   typ,
		Date:   s.now().UTC(),
	}
	s.investments = append(s.investments, inv)
	snap := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("added investment", "id", inv.ID, "type", inv.Type, "amount", inv.Amount)
	s.publish(snap)
	return inv, nil
}

// ProcessInvestmentPayment reduces the outstanding amount. Overpaying
// leaves a negative amount.
func (s *Store) ProcessInvestmentPayment(investmentID, amount string) Outcome {
	v, ok := ParsePositiveAmount(amount)
	if !ok {
		return InvalidInput
	}

	s.mu.Lock()
	i := s.investmentIndex(investmentID)
	if i < 0 {
		s.mu.Unlock()
		return NotFound
	}
	s.investments[i].Amount -= v
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return OK
}

// Investment returns the investment with the given id.
func (s *Store) Investment(id string) (model.Investment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.investmentIndex(id); i >= 0 {
		return s.investments[i], true
	}
	return model.Investment{}, false
}

// Investments returns investments of the given type, or all when typ is empty.
func (s *Store) Investments(typ model.InvestmentType) []model.Investment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Investment{}
	for _, inv := range s.investments {
		if typ == "" || inv.Type == typ {
			out = append(out, inv)
		}
	}
	return out
}

func (s *Store) investmentIndex(id string) int {
	for i := range s.investments {
		if s.investments[i].ID == id {
			return i
		}
	}
	return -1
}
