package ledger

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
)

// AddCheck records a new pending check.
func (s *Store) AddCheck(in model.CheckInput) (model.Check, error) {
	if err := in.Validate(); err != nil {
		return model.Check{}, fmt.Errorf("%w: %v", common.ErrInvalidCheck, err)
	}

	s.mu.Lock()
	c := model.Check{
		ID:      s.newID(),
		Number:  in.Number,
		Bank:    in.Bank,
		Amount:  in.Amount,
		Name:    in.Name,
		Contact: in.Contact,
		Type:    in.Type,
		Date:    in.Date,
		Status:  model.CheckPending,
	}
	s.checks = append(s.checks, c)
	snap := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("added check", "id", c.ID, "number", c.Number, "type", c.Type)
	s.publish(snap)
	return c, nil
}

// PassCheck marks a pending check as cleared.
func (s *Store) PassCheck(checkID string) Outcome {
	return s.settleCheck(checkID, model.CheckCleared)
}

// BounceCheck marks a pending check as bounced.
func (s *Store) BounceCheck(checkID string) Outcome {
	return s.settleCheck(checkID, model.CheckBounced)
}

// settleCheck moves a pending check to a terminal status. Settled checks
// are never changed again.
func (s *Store) settleCheck(id string, status model.CheckStatus) Outcome {
	s.mu.Lock()
	i := s.checkIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return NotFound
	}
	if s.checks[i].Status.Terminal() {
		current := s.checks[i].Status
		s.mu.Unlock()
		slog.Debug("check already settled", "id", id, "status", current, "requested", status)
		return InvalidInput
	}
	s.checks[i].Status = status
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return OK
}

// Check returns the check with the given id.
func (s *Store) Check(id string) (model.Check, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.checkIndex(id); i >= 0 {
		return s.checks[i], true
	}
	return model.Check{}, false
}

// Checks returns checks of the given type, or all when typ is empty.
func (s *Store) Checks(typ model.CheckType) []model.Check {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Check{}
	for _, c := range s.checks {
		if typ == "" || c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) checkIndex(id string) int {
	for i := range s.checks {
		if s.checks[i].ID == id {
			return i
		}
	}
	return -1
}
