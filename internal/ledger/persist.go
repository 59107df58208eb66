package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/service"
)

// Load restores the ledger from storage.
func (s *Store) Load(ctx context.Context, storage service.LedgerStorage) error {
	snap, err := storage.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	s.Restore(snap)
	return nil
}

// Save writes the current ledger to storage.
func (s *Store) Save(ctx context.Context, storage service.LedgerStorage) error {
	if err := storage.SaveLedger(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// PersistTo saves every change to storage. Snapshots can reach the hook out
// of order when writers race, so anything older than the last saved
// version is skipped. A failed save is logged and reported by PersistErr
// until a later save succeeds.
func (s *Store) PersistTo(ctx context.Context, storage service.LedgerStorage) {
	var saved uint64
	s.OnChange(func(snap model.Snapshot) {
		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		if snap.Version <= saved {
			return
		}
		if err := storage.SaveLedger(ctx, snap); err != nil {
			common.LogError(err, "failed to persist ledger", common.Fields{"version": snap.Version})
			s.persistErr = fmt.Errorf("%w: version %d: %w", common.ErrNotPersisted, snap.Version, err)
			return
		}
		saved = snap.Version
		s.persistErr = nil
	})
}

// PersistErr reports why the latest change was not saved, or nil when
// storage is up to date.
func (s *Store) PersistErr() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persistErr
}
