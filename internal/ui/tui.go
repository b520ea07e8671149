// Package ui provides an optional terminal interface for the queue.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasq-sh/tasq/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Faint(true)
	nextStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// RunTUI starts the queue viewer on the given todo file.
func RunTUI(ctx context.Context, file *storage.TodoFile) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(file)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	file         *storage.TodoFile
	entries      []storage.Entry
	next         *storage.Entry
	loadErr      error
	showAll      bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(file *storage.TodoFile) *tuiModel {
	return &tuiModel{
		file:         file,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "a":
			m.showAll = !m.showAll
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tasq queue") + "\n")
	b.WriteString(doneStyle.Render(m.file.Path()) + "\n\n")

	if m.loadErr != nil {
		b.WriteString(errStyle.Render("Error reading todo file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	pending, done := 0, 0
	for _, e := range m.entries {
		if e.Task.Completed {
			done++
		} else {
			pending++
		}
	}
	b.WriteString(fmt.Sprintf("Pending: %d  Done: %d\n\n", pending, done))

	if m.next != nil {
		b.WriteString("Next\n\n")
		b.WriteString(nextStyle.Render(fmt.Sprintf("  [%d] %s", m.next.Index, m.next.Raw)) + "\n\n")
	} else {
		b.WriteString("No incomplete tasks.\n\n")
	}

	b.WriteString("Queue\n\n")
	shown := 0
	for _, e := range m.entries {
		if e.Task.Completed && !m.showAll {
			continue
		}
		line := fmt.Sprintf("  [%d] %s", e.Index, e.Raw)
		if e.Task.Completed {
			line = doneStyle.Render(line)
		}
		b.WriteString(line + "\n")
		shown++
	}
	if shown == 0 {
		b.WriteString("  (empty)\n")
	}
	b.WriteString("\n")

	writeFooter(&b, m.tickInterval)
	return b.String()
}

func (m *tuiModel) refresh() {
	entries, err := m.file.ListWithIndices()
	if err != nil {
		m.loadErr = err
		m.entries = nil
		m.next = nil
		return
	}
	next, err := m.file.NextIncomplete()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.entries = entries
	m.next = next
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(doneStyle.Render(fmt.Sprintf("a: toggle done | r: refresh | q: quit | refreshing every %s", interval)) + "\n")
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
