package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velara/bookbind/pkg/cleaner"
)

// Tracker aggregates cleaning progress for rendering.
type Tracker struct {
	current    *cleaner.Progress
	completed  int
	totalFiles int
	errors     []string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Update(p cleaner.Progress) {
	t.totalFiles = p.TotalFiles
	switch p.Status {
	case "complete":
		t.completed++
		t.current = nil
	case "error":
		t.completed++
		t.current = nil
		if p.Err != nil {
			t.errors = append(t.errors, fmt.Sprintf("%s: %v", p.File, p.Err))
		}
	default:
		prog := p // copy
		t.current = &prog
	}
}

func (t *Tracker) Completed() int  { return t.completed }
func (t *Tracker) TotalFiles() int { return t.totalFiles }

// Fraction is the share of files finished, for the progress bar.
func (t *Tracker) Fraction() float64 {
	if t.totalFiles == 0 {
		return 0
	}
	return float64(t.completed) / float64(t.totalFiles)
}

func (t *Tracker) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Cleaning chapters"))
	b.WriteString("\n")

	if t.current != nil {
		line := fmt.Sprintf("[%02d/%02d] %s", t.current.Ordinal, t.totalFiles, t.current.File)
		b.WriteString(TextStyle.Render(line))
		b.WriteString("\n")

		status := t.current.Status
		if t.current.TotalItems > 0 {
			status = fmt.Sprintf("%s images %d/%d", status, t.current.CurrentItem, t.current.TotalItems)
		}
		b.WriteString(StatusStyle(t.current.Status).Render(status))
		b.WriteString("\n")
	}

	for _, e := range t.errors {
		b.WriteString(ErrorStyle.Render("skipped " + e))
		b.WriteString("\n")
	}

	return b.String()
}

type progressMsg cleaner.Progress

type doneMsg struct{}

type progressModel struct {
	tracker *Tracker
	bar     progress.Model
	done    bool
}

func newProgressModel() progressModel {
	return progressModel{
		tracker: NewTracker(),
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case progressMsg:
		m.tracker.Update(cleaner.Progress(msg))
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(m.tracker.View())
	b.WriteString(m.bar.ViewAs(m.tracker.Fraction()))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d/%d files", m.tracker.Completed(), m.tracker.TotalFiles())))
	b.WriteString("\n")
	return b.String()
}

// RunProgress renders a live progress view until the channel closes.
func RunProgress(ch <-chan cleaner.Progress) error {
	p := tea.NewProgram(newProgressModel())

	go func() {
		for update := range ch {
			p.Send(progressMsg(update))
		}
		p.Send(doneMsg{})
	}()

	_, err := p.Run()
	return err
}
