// Package auth holds the user registry, one-time login codes and session tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// RegistryKey is the key-value entry holding the JSON array of users.
const RegistryKey = "creditApp_users"

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// defaultUser is used when no registry has been saved yet.
var defaultUser = model.RegisteredUser{Username: "admin", Password: "admin", Mobile: "000000000"}

// Registry is the list of users allowed to log in, mirrored into a
// key-value store after every successful registration.
type Registry struct {
	kv    service.KeyValueStore
	users []model.RegisteredUser
	cost  int
	mu    sync.Mutex
}

// NewRegistry creates a registry backed by kv. A cost of zero uses bcrypt.DefaultCost.
func NewRegistry(kv service.KeyValueStore, cost int) *Registry {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Registry{kv: kv, cost: cost}
}

// Load reads the saved registry. When nothing has been saved the registry
// starts with the default admin account, which is not written until the
// first registration.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.kv.Get(ctx, RegistryKey)
	if errors.Is(err, common.ErrNotFound) {
		r.users = []model.RegisteredUser{defaultUser}
		slog.Debug("user registry not found, using default admin")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read user registry: %w", err)
	}

	var users []model.RegisteredUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("failed to decode user registry: %w", err)
	}
	r.users = users
	return nil
}

// Register adds a user. It returns false without changing anything when
// the username is already taken. Passwords longer than MaxPasswordBytes
// fail with common.ErrPasswordTooLong; any other error is a storage failure.
func (r *Registry) Register(ctx context.Context, username, password, mobile string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(username) >= 0 {
		return false, nil
	}
	if len(password) > MaxPasswordBytes {
		return false, fmt.Errorf("%w: got %d", common.ErrPasswordTooLong, len(password))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	updated := make([]model.RegisteredUser, len(r.users), len(r.users)+1)
	copy(updated, r.users)
	updated = append(updated, model.RegisteredUser{Username: username, Password: string(hash), Mobile: mobile})

	if err := r.save(ctx, updated); err != nil {
		return false, err
	}
	r.users = updated

	slog.Info("registered user", "username", username)
	return true, nil
}

// Authenticate returns the user matching username and password.
func (r *Registry) Authenticate(ctx context.Context, username, password string) (*model.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(username)
	if i < 0 {
		return nil, false
	}
	stored := r.users[i]

	if isHash(stored.Password) {
		if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(password)) != nil {
			return nil, false
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(stored.Password), []byte(password)) != 1 {
			return nil, false
		}
		r.upgrade(ctx, i, password)
	}

	return &model.User{Username: stored.Username, Mobile: stored.Mobile}, true
}

// Users returns a copy of the registry.
func (r *Registry) Users() []model.RegisteredUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.RegisteredUser, len(r.users))
	copy(out, r.users)
	return out
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// upgrade replaces a plaintext password with its hash. Failure leaves the
// plaintext entry in place; the login itself still succeeds.
func (r *Registry) upgrade(ctx context.Context, i int, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		slog.Warn("failed to hash legacy password", "username", r.users[i].Username, "error", err)
		return
	}

	updated := make([]model.RegisteredUser, len(r.users))
	copy(updated, r.users)
	updated[i].Password = string(hash)

	if err := r.save(ctx, updated); err != nil {
		slog.Warn("failed to save upgraded password", "username", r.users[i].Username, "error", err)
		return
	}
	r.users = updated
}

func (r *Registry) save(ctx context.Context, users []model.RegisteredUser) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user registry: %w", err)
	}
	if err := r.kv.Set(ctx, RegistryKey, data); err != nil {
		return fmt.Errorf("failed to save user registry: %w", err)
	}
	return nil
}

func (r *Registry) indexOf(username string) int {
	for i, u := range r.users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

func isHash(password string) bool {
	return strings.HasPrefix(password, "$2a$") ||
		strings.HasPrefix(password, "$2b$") ||
		strings.HasPrefix(password, "$2y$")
}
