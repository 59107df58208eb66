// Package service defines the interfaces between the ledger and its collaborators.
package service

import (
	"context"

	"github.com/Veraticus/creditbook/internal/model"
)

// KeyValueStore is the small persistence surface the user registry needs.
// Get returns common.ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// LedgerStorage persists whole ledger snapshots.
type LedgerStorage interface {
	SaveLedger(ctx context.Context, snapshot model.Snapshot) error
	LoadLedger(ctx context.Context) (model.Snapshot, error)
}

// Storage is the full persistence layer used by the CLI and server.
type Storage interface {
	KeyValueStore
	LedgerStorage
	Migrate(ctx context.Context) error
	Close() error
}

// CodeSender delivers one-time login codes to a user.
type CodeSender interface {
	SendCode(ctx context.Context, user model.User, code string) error
}

// ReportWriter exports a ledger snapshot to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, snapshot model.Snapshot) error
}
