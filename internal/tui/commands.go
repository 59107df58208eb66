package tui

import (
	"github.com/Veraticus/creditbook/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// waitForSnapshot blocks on the subscription and delivers the next snapshot.
func waitForSnapshot(updates <-chan model.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg{snapshot: snap, pushed: true}
	}
}

// loadSnapshot reads the current state from the source.
func loadSnapshot(source Source) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snapshot: source.Snapshot()}
	}
}
