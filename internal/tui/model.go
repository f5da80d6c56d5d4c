package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chanfix/internal/processor"
)

const recentLines = 8

// Model renders batch progress from an orchestrator event stream. It has no
// key bindings: a started batch runs to completion.
type Model struct {
	events    <-chan processor.Event
	title     string
	bar       progress.Model
	started   time.Time
	width     int
	total     int
	processed int
	failed    int
	recent    []processor.Event
	summary   *processor.Summary
	quitting  bool
}

type doneMsg struct{}

type eventMsg processor.Event

func NewModel(title string, events <-chan processor.Event) Model {
	return Model{
		events:  events,
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		started: time.Now(),
	}
}

// Summary is the batch summary, available once the stream has completed.
func (m Model) Summary() *processor.Summary {
	return m.summary
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := processor.Event(msg)
		if ev.Total > 0 {
			m.total = ev.Total
		}
		if ev.Kind == processor.EventBatchComplete {
			m.summary = ev.Summary
			return m, listenForEvents(m.events)
		}
		m.processed++
		if ev.Kind == processor.EventFileFailed {
			m.failed++
		}
		m.recent = append(m.recent, ev)
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 10
		if w > 60 {
			w = 60
		}
		if w < 20 {
			w = 20
		}
		m.bar.Width = w
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.processed) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.failed)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(ratio),
	}
	if len(m.recent) > 0 {
		lines = append(lines, "")
		for _, ev := range m.recent {
			lines = append(lines, RenderEventLine(ev))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderEventLine styles an event's transcript line by outcome.
func RenderEventLine(ev processor.Event) string {
	switch ev.Kind {
	case processor.EventFileFailed:
		return errorStyle.Render(ev.Line)
	case processor.EventFileRepaired:
		return successStyle.Render(ev.Line)
	case processor.EventFileSkipped:
		return dimStyle.Render(ev.Line)
	default:
		return labelStyle.Render(ev.Line)
	}
}

func listenForEvents(events <-chan processor.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle     = lipgloss.NewStyle().Foreground(ColorDim)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
)
