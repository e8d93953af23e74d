package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ohsu-comp-bio/nextflow/history"
)

// browserHeight is the visible row count of the history table.
const browserHeight = 15

// keyMap defines key bindings for the history browser.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// HistoryModel is the Bubble Tea model browsing run history records.
type HistoryModel struct {
	table    table.Model
	quitting bool
}

// NewHistoryModel creates a browser over the given records.
func NewHistoryModel(records []history.Record) HistoryModel {
	columns := []table.Column{
		{Title: "TIMESTAMP", Width: 20},
		{Title: "DURATION", Width: 10},
		{Title: "RUN NAME", Width: 24},
		{Title: "STATUS", Width: 6},
		{Title: "REVISION", Width: 10},
		{Title: "SESSION ID", Width: 36},
	}

	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			rec.Timestamp.Format(time.RFC3339),
			rec.Duration.Round(time.Second).String(),
			rec.Name,
			statusCell(rec.Status),
			rec.Revision,
			rec.SessionID,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(browserHeight),
	)
	return HistoryModel{table: t}
}

func statusCell(status string) string {
	switch status {
	case "OK":
		return OKStyle.Render(status)
	case "ERR":
		return ErrStyle.Render(status)
	default:
		return status
	}
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}
	title := TitleStyle.Render("Run History")
	help := HelpStyle.Render("↑/↓ navigate · q quit")
	return title + "\n" + BorderStyle.Render(m.table.View()) + "\n" + help
}

// SelectedRun returns the run name of the highlighted row, empty when the
// history is empty.
func (m HistoryModel) SelectedRun() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[2]
}

// Run starts the interactive history browser.
func Run(records []history.Record) error {
	_, err := tea.NewProgram(NewHistoryModel(records), tea.WithAltScreen()).Run()
	return err
}
