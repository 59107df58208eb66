package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
)

// MemoryKV is a map-backed service.KeyValueStore.
type MemoryKV struct {
	data map[string][]byte
	// FailSet makes every Set call fail when non-nil.
	FailSet error
	Sets    int
	mu      sync.Mutex
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements service.KeyValueStore.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements service.KeyValueStore.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSet != nil {
		return m.FailSet
	}
	m.Sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// SentCode is one code delivered through CodeRecorder.
type SentCode struct {
	User model.User
	Code string
}

// CodeRecorder is a service.CodeSender that remembers every code.
type CodeRecorder struct {
	Err  error
	sent []SentCode
	mu   sync.Mutex
}

// SendCode implements service.CodeSender.
func (r *CodeRecorder) SendCode(_ context.Context, user model.User, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, SentCode{User: user, Code: code})
	return nil
}

// Last returns the most recent code sent.
func (r *CodeRecorder) Last() (SentCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sent) == 0 {
		return SentCode{}, errors.New("no code sent")
	}
	return r.sent[len(r.sent)-1], nil
}
