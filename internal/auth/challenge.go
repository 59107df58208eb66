package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
)

// One-time code errors.
var (
	ErrChallengeNotFound = errors.New("no login code was issued for this user")
	ErrChallengeExpired  = errors.New("login code expired")
	ErrCodeMismatch      = errors.New("login code does not match")
	ErrTooManyAttempts   = errors.New("too many wrong login codes")
)

// Default one-time code policy.
const (
	DefaultCodeTTL     = 5 * time.Minute
	DefaultMaxAttempts = 5
)

// Challenge is an issued one-time code.
type Challenge struct {
	ExpiresAt time.Time
	Username  string
	Code      string
}

type pendingCode struct {
	expiresAt time.Time
	user      model.User
	code      string
	attempts  int
}

// Challenger issues and checks four-digit login codes. A new code for the
// same user replaces the previous one.
type Challenger struct {
	now         func() time.Time
	random      io.Reader
	pending     map[string]*pendingCode
	ttl         time.Duration
	maxAttempts int
	mu          sync.Mutex
}

// NewChallenger creates a challenger. Zero values select the defaults.
func NewChallenger(ttl time.Duration, maxAttempts int) *Challenger {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Challenger{
		now:         time.Now,
		random:      rand.Reader,
		pending:     make(map[string]*pendingCode),
		ttl:         ttl,
		maxAttempts: maxAttempts,
	}
}

// Issue generates a code in the range 1000-9999 for user.
func (c *Challenger) Issue(user model.User) (Challenge, error) {
	n, err := rand.Int(c.random, big.NewInt(9000))
	if err != nil {
		return Challenge{}, fmt.Errorf("failed to generate login code: %w", err)
	}
	code := fmt.Sprintf("%04d", 1000+n.Int64())

	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	c.pending[user.Username] = &pendingCode{user: user, code: code, expiresAt: expires}

	return Challenge{Username: user.Username, Code: code, ExpiresAt: expires}, nil
}

// Verify consumes the pending code for username when it matches and
// returns the user it was issued for.
func (c *Challenger) Verify(username, code string) (model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[username]
	if !ok {
		return model.User{}, ErrChallengeNotFound
	}

	if !c.now().Before(p.expiresAt) {
		delete(c.pending, username)
		return model.User{}, ErrChallengeExpired
	}

	if subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) != 1 {
		p.attempts++
		if p.attempts >= c.maxAttempts {
			delete(c.pending, username)
			return model.User{}, ErrTooManyAttempts
		}
		return model.User{}, ErrCodeMismatch
	}

	delete(c.pending, username)
	return p.user, nil
}

// Pending reports whether username has an outstanding code.
func (c *Challenger) Pending(username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[username]
	return ok
}
