// Package ledger holds the shop's credit book: customers, suppliers,
// investments and checks with their running balances, plus the login
// session. Every surface (CLI, HTTP API, dashboard) works through one Store.
package ledger

import (
	"sync"
	"time"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/service"
	"github.com/google/uuid"
)

// Store is the ledger state container. It is safe for concurrent use; each
// operation is applied atomically and observers see whole snapshots.
type Store struct {
	now         func() time.Time
	newID       func() string
	registry    *auth.Registry
	challenger  *auth.Challenger
	sender      service.CodeSender
	session     *model.User
	subscribers map[int]chan model.Snapshot
	profile     model.AdminProfile
	customers   []model.Customer
	suppliers   []model.Supplier
	investments []model.Investment
	checks      []model.Check
	hooks       []func(model.Snapshot)
	persistErr  error
	version     uint64
	nextSub     int
	mu          sync.RWMutex
	subMu       sync.Mutex
	persistMu   sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for investment dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithChallenger sets the one-time code issuer used by BeginOTPLogin.
func WithChallenger(c *auth.Challenger) Option {
	return func(s *Store) { s.challenger = c }
}

// WithCodeSender sets how one-time codes reach the user.
func WithCodeSender(sender service.CodeSender) Option {
	return func(s *Store) { s.sender = sender }
}

// New creates an empty ledger whose logins are checked against registry.
func New(registry *auth.Registry, opts ...Option) *Store {
	s := &Store{
		now:         time.Now,
		newID:       uuid.NewString,
		registry:    registry,
		subscribers: make(map[int]chan model.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.challenger == nil {
		s.challenger = auth.NewChallenger(0, 0)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Restore replaces collections and profile with a saved snapshot. The
// session is left alone and observers are not notified.
func (s *Store) Restore(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = append([]model.Customer(nil), snap.Customers...)
	s.suppliers = append([]model.Supplier(nil), snap.Suppliers...)
	s.investments = append([]model.Investment(nil), snap.Investments...)
	s.checks = append([]model.Check(nil), snap.Checks...)
	s.profile = snap.Profile
	s.version = snap.Version
}

// Subscribe registers an observer that receives a snapshot after every
// change. Sends never block: a subscriber whose buffer is full misses that
// update. The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// OnChange registers a hook called synchronously after every change, in
// registration order.
func (s *Store) OnChange(fn func(model.Snapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// commitLocked bumps the version and captures the snapshot to publish.
// Callers hold s.mu for writing and call publish after releasing it.
func (s *Store) commitLocked() model.Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Store) publish(snap model.Snapshot) {
	s.subMu.Lock()
	hooks := append([]func(model.Snapshot){}, s.hooks...)
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
	s.subMu.Unlock()

	for _, fn := range hooks {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		Profile:     s.profile,
		Customers:   append([]model.Customer{}, s.customers...),
		Suppliers:   append([]model.Supplier{}, s.suppliers...),
		Investments: append([]model.Investment{}, s.investments...),
		Checks:      append([]model.Check{}, s.checks...),
		Totals:      s.totalsLocked(),
		Version:     s.version,
	}
	if s.session != nil {
		user := *s.session
		snap.Session = &user
	}
	return snap
}
