package tui

import "github.com/Veraticus/creditbook/internal/model"

// snapshotMsg carries a new ledger state. pushed marks snapshots read from
// the subscription, which re-arm the listener.
type snapshotMsg struct {
	snapshot model.Snapshot
	pushed   bool
}

// feedClosedMsg reports that the subscription channel was closed.
type feedClosedMsg struct{}
