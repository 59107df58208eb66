package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
)

// Register adds a user to the registry. It returns false, leaving the
// registry untouched, when the username is taken.
func (s *Store) Register(ctx context.Context, username, password, mobile string) (bool, error) {
	return s.registry.Register(ctx, username, password, mobile)
}

// ValidateCredentials checks username and password without logging in.
func (s *Store) ValidateCredentials(ctx context.Context, username, password string) (*model.User, bool) {
	return s.registry.Authenticate(ctx, username, password)
}

// Login starts a session when the credentials match.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	user, ok := s.registry.Authenticate(ctx, username, password)
	if !ok {
		slog.Debug("login rejected", "username", username)
		return false
	}
	s.setSession(user)
	return true
}

// BeginOTPLogin checks the credentials and sends a one-time code. The
// session only starts once VerifyOTP receives the same code.
func (s *Store) BeginOTPLogin(ctx context.Context, username, password string) (*auth.Challenge, error) {
	user, ok := s.registry.Authenticate(ctx, username, password)
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	challenge, err := s.challenger.Issue(*user)
	if err != nil {
		return nil, err
	}

	if s.sender != nil {
		if err := s.sender.SendCode(ctx, *user, challenge.Code); err != nil {
			return nil, fmt.Errorf("failed to send login code: %w", err)
		}
	}
	return &challenge, nil
}

// VerifyOTP completes a login started by BeginOTPLogin.
func (s *Store) VerifyOTP(username, code string) error {
	user, err := s.challenger.Verify(username, code)
	if err != nil {
		return err
	}
	s.setSession(&user)
	return nil
}

// Logout ends the session, if any.
func (s *Store) Logout() {
	s.setSession(nil)
}

// Session returns the logged-in user.
func (s *Store) Session() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return model.User{}, false
	}
	return *s.session, true
}

func (s *Store) setSession(user *model.User) {
	s.mu.Lock()
	if user != nil {
		u := *user
		s.session = &u
	} else {
		s.session = nil
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
}
