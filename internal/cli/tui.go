package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fractalplane/pkg/engine"
)

var (
	tuiDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiValueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tuiErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	tuiTickInterval = 100 * time.Millisecond
	tuiBarWidth     = 40
)

// =============================================================================
// BatchModel - Live batch progress
// =============================================================================

type tickMsg time.Time

type batchDoneMsg struct{ err error }

// BatchModel is the bubbletea model that follows one batch until it finishes.
// Pressing q or ctrl+c sets Aborted and quits; the batch keeps running.
type BatchModel struct {
	Batch   *engine.Batch
	Title   string
	Done    int
	Total   int
	Elapsed time.Duration
	Err     error
	Aborted bool
	Width   int

	finished bool
}

// NewBatchModel creates a model following b.
func NewBatchModel(title string, b *engine.Batch) BatchModel {
	done, total := b.Progress()
	return BatchModel{Batch: b, Title: title, Done: done, Total: total, Width: tuiBarWidth}
}

func (m BatchModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitBatch(m.Batch))
}

func tick() tea.Cmd {
	return tea.Tick(tuiTickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitBatch(b *engine.Batch) tea.Cmd {
	return func() tea.Msg {
		<-b.Done()
		return batchDoneMsg{err: b.Err()}
	}
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-30, 10), tuiBarWidth)
	case tickMsg:
		m.sample()
		return m, tick()
	case batchDoneMsg:
		m.sample()
		m.Err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *BatchModel) sample() {
	m.Done, m.Total = m.Batch.Progress()
	m.Elapsed = m.Batch.Elapsed()
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(" ")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("batch %d · %s", m.Batch.Generation, shortID(m.Batch.ID))))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.Done, m.Total, m.Width))
	b.WriteString(" ")
	b.WriteString(tuiValueStyle.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
	b.WriteString("\n")

	status := fmt.Sprintf("elapsed %s", m.Elapsed.Round(10*time.Millisecond))
	if rem, ok := m.Batch.Remaining(); ok && !m.finished {
		status += fmt.Sprintf(" · ~%s left", rem.Round(100*time.Millisecond))
	}
	b.WriteString(tuiDimStyle.Render(status))
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(tuiErrorStyle.Render("failed: " + m.Err.Error()))
		b.WriteString("\n")
	case !m.finished:
		b.WriteString(tuiDimStyle.Render("q detach"))
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// followBatch runs the progress TUI until b finishes or the user detaches.
func followBatch(title string, b *engine.Batch) (BatchModel, error) {
	final, err := tea.NewProgram(NewBatchModel(title, b)).Run()
	if err != nil {
		return BatchModel{}, err
	}
	return final.(BatchModel), nil
}
