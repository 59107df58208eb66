package ledger

import "github.com/Veraticus/creditbook/internal/model"

// UpdateAdminProfile replaces the shop profile.
func (s *Store) UpdateAdminProfile(profile model.AdminProfile) {
	s.mu.Lock()
	s.profile = profile
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// AdminProfile returns the shop profile.
func (s *Store) AdminProfile() model.AdminProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}
