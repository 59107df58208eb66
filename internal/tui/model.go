// Package tui is the terminal dashboard over the ledger.
package tui

import (
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source is where the dashboard reads ledger state from.
type Source interface {
	Snapshot() model.Snapshot
	Subscribe(buffer int) (<-chan model.Snapshot, func())
}

// Tab is one collection view.
type Tab int

// Dashboard tabs, in display order.
const (
	TabCustomers Tab = iota
	TabSuppliers
	TabInvestments
	TabChecks
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabCustomers:
		return "Customers"
	case TabSuppliers:
		return "Suppliers"
	case TabInvestments:
		return "Investments"
	case TabChecks:
		return "Checks"
	default:
		return "Unknown"
	}
}

// filters lists the type filters a tab can cycle through; "" shows all.
func (t Tab) filters() []string {
	switch t {
	case TabInvestments:
		return []string{"", string(model.InvestmentGiven), string(model.InvestmentTaken)}
	case TabChecks:
		return []string{"", string(model.CheckComing), string(model.CheckGiven)}
	default:
		return nil
	}
}

// Model holds the dashboard state.
type Model struct {
	source     Source
	updates    <-chan model.Snapshot
	theme      themes.Theme
	help       help.Model
	config     Config
	keymap     KeyMap
	filters    [tabCount]int
	snapshot   model.Snapshot
	table      table.Model
	width      int
	height     int
	tab        Tab
	feedClosed bool
	quitting   bool
}

func newModel(source Source, updates <-chan model.Snapshot, cfg Config) Model {
	m := Model{
		source:   source,
		updates:  updates,
		theme:    cfg.Theme,
		help:     help.New(),
		config:   cfg,
		keymap:   DefaultKeyMap(),
		snapshot: source.Snapshot(),
		width:    cfg.Width,
		height:   cfg.Height,
		table: table.New(
			table.WithFocused(true),
		),
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(m.theme.Foreground).
		Background(m.theme.Primary).
		Bold(false)
	m.table.SetStyles(styles)

	m.resize()
	m.refreshTable()
	return m
}

// Init starts listening for pushed snapshots.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshTable()
		return m, nil

	case snapshotMsg:
		if msg.snapshot.Version >= m.snapshot.Version {
			m.snapshot = msg.snapshot
			m.refreshTable()
		}
		if msg.pushed {
			return m, waitForSnapshot(m.updates)
		}
		return m, nil

	case feedClosedMsg:
		m.feedClosed = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextTab):
			m.switchTab((m.tab + 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keymap.PrevTab):
			m.switchTab((m.tab + tabCount - 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keymap.Filter):
			if n := len(m.tab.filters()); n > 0 {
				m.filters[m.tab] = (m.filters[m.tab] + 1) % n
				m.table.SetCursor(0)
				m.refreshTable()
			}
			return m, nil
		case key.Matches(msg, m.keymap.Refresh):
			return m, loadSnapshot(m.source)
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// filter is the active type filter of the current tab.
func (m Model) filter() string {
	f := m.tab.filters()
	if len(f) == 0 {
		return ""
	}
	return f[m.filters[m.tab]]
}

func (m *Model) switchTab(tab Tab) {
	m.tab = tab
	m.table.SetCursor(0)
	m.refreshTable()
}

// refreshTable rebuilds columns and rows for the current tab. Rows are
// cleared first so they never outnumber the new columns.
func (m *Model) refreshTable() {
	m.table.SetRows(nil)
	m.table.SetColumns(columns(m.tab, m.width))
	m.table.SetRows(rows(m.tab, m.snapshot, m.filter(), m.config.Currency))
}

func (m *Model) resize() {
	chrome := 12
	if m.help.ShowAll {
		chrome += 2
	}
	m.help.Width = m.width
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(3, m.height-chrome))
}
