package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snap    model.Snapshot
	updates chan model.Snapshot
}

func (f *fakeSource) Snapshot() model.Snapshot { return f.snap }

func (f *fakeSource) Subscribe(int) (<-chan model.Snapshot, func()) {
	return f.updates, func() {}
}

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Profile: model.AdminProfile{ShopName: "Perera Stores"},
		Session: &model.User{Username: "admin"},
		Customers: []model.Customer{
			{ID: "c1", Name: "John", Mobile: "123456789", Credit: -50},
			{ID: "c2", Name: "Mary", Mobile: "987654321", Credit: 1200},
		},
		Suppliers: []model.Supplier{{ID: "s1", Name: "Wholesale", Mobile: "555555555", Credit: 5000}},
		Investments: []model.Investment{
			{ID: "i1", Name: "Kamal", Amount: 1000, Type: model.InvestmentGiven, Date: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
			{ID: "i2", Name: "Bank", Amount: 300, Type: model.InvestmentTaken, Date: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)},
		},
		Checks: []model.Check{
			{ID: "k1", Number: "000123", Bank: "BOC", Name: "Nimal", Date: "2024-04-01", Type: model.CheckComing, Status: model.CheckPending, Amount: 2500},
		},
		Totals:  model.Totals{Credit: 1150, SupplierCredit: 5000, InvestmentGiven: 1000, InvestmentTaken: 300, PendingChecksIn: 2500},
		Version: 7,
	}
}

func newTestModel(t *testing.T) (Model, *fakeSource) {
	t.Helper()
	src := &fakeSource{snap: testSnapshot(), updates: make(chan model.Snapshot, 1)}
	cfg := defaultConfig()
	return newModel(src, src.updates, cfg), src
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestInitialView(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{"Perera Stores", "logged in as admin", "Total Credit", "LKR 1,150.00", "Customers (2)", "John", "LKR -50.00", "version 7"} {
		assert.Contains(t, view, want)
	}
	assert.Len(t, m.table.Rows(), 2)
}

func TestTabNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, TabSuppliers, m.tab)
	assert.Equal(t, "Wholesale", m.table.Rows()[0][0])

	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, TabChecks, m.tab)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "pending", m.table.Rows()[0][5])

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, TabCustomers, m.tab, "wraps around")

	m, _ = update(t, m, keyPress("shift+tab"))
	assert.Equal(t, TabChecks, m.tab)
}

func TestFilterCycle(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyPress("f"))
	assert.Len(t, m.table.Rows(), 2, "customers have no filter")

	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, keyPress("tab"))
	require.Equal(t, TabInvestments, m.tab)
	assert.Len(t, m.table.Rows(), 2)

	m, _ = update(t, m, keyPress("f"))
	assert.Equal(t, "given", m.filter())
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Kamal", m.table.Rows()[0][1])
	assert.Contains(t, m.View(), "[given]")

	m, _ = update(t, m, keyPress("f"))
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Bank", m.table.Rows()[0][1])

	m, _ = update(t, m, keyPress("f"))
	assert.Empty(t, m.filter())
}

func TestPushedSnapshotRefreshesAndRearms(t *testing.T) {
	m, src := newTestModel(t)

	next := testSnapshot()
	next.Customers = append(next.Customers, model.Customer{ID: "c3", Name: "Sam", Mobile: "111111111"})
	next.Version = 8

	m, cmd := update(t, m, snapshotMsg{snapshot: next, pushed: true})
	assert.Len(t, m.table.Rows(), 3)
	assert.Contains(t, m.View(), "Customers (3)")
	require.NotNil(t, cmd)

	later := next
	later.Version = 9
	src.updates <- later
	msg := cmd()
	assert.Equal(t, snapshotMsg{snapshot: later, pushed: true}, msg)
}

func TestStaleSnapshotIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	old := testSnapshot()
	old.Customers = nil
	old.Version = 3

	m, cmd := update(t, m, snapshotMsg{snapshot: old})
	assert.Nil(t, cmd, "refresh results do not re-arm the listener")
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, uint64(7), m.snapshot.Version)
}

func TestRefreshKeyLoadsSnapshot(t *testing.T) {
	m, src := newTestModel(t)
	src.snap.Version = 10

	_, cmd := update(t, m, keyPress("r"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(10), msg.snapshot.Version)
	assert.False(t, msg.pushed)
}

func TestFeedClosed(t *testing.T) {
	m, src := newTestModel(t)
	close(src.updates)

	msg := waitForSnapshot(src.updates)()
	require.IsType(t, feedClosedMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.View(), "live updates stopped")
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	cols := m.table.Columns()
	assert.Equal(t, 140-(11+2)-(18+2)-2-2, cols[0].Width)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	short := m.View()

	m, _ = update(t, m, keyPress("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "previous tab")
	assert.NotContains(t, short, "previous tab")
}

func TestColumnsMatchRows(t *testing.T) {
	snap := testSnapshot()
	for tab := Tab(0); tab < tabCount; tab++ {
		t.Run(tab.String(), func(t *testing.T) {
			cols := columns(tab, 100)
			for _, row := range rows(tab, snap, "", "LKR") {
				assert.Len(t, row, len(cols))
			}
			assert.False(t, strings.Contains(tab.String(), "Unknown"))
		})
	}
}
