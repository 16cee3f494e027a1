package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	tickInterval = 150 * time.Millisecond
	barWidth     = 36
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner and elapsed-time display.
type tickMsg time.Time

// RenderModel is a bubbletea model that renders a single job's progress: the
// current pipeline stage, a percent bar, and elapsed time.
type RenderModel struct {
	title   string
	stage   string
	percent int
	started time.Time
	done    bool
	aborted bool
	err     error

	tick int
}

// NewRenderModel creates a progress model titled with the job's name.
func NewRenderModel(title string) RenderModel {
	return RenderModel{
		title:   title,
		stage:   "validating",
		started: time.Now(),
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m RenderModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m RenderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StageMsg:
		m.stage = msg.Stage
		if msg.Percent > m.percent {
			m.percent = msg.Percent
		}
		if m.percent > 100 {
			m.percent = 100
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.stage = "error"
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m RenderModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteByte('\n')

	filled := m.percent * barWidth / 100
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	marker := spinnerFrames[m.tick%len(spinnerFrames)]
	if m.done {
		marker = "✓"
	}

	fmt.Fprintf(&b, "%s %s %s %3d%% (%s)\n",
		marker,
		StageStyle(m.stage).Render(padStage(m.stage)),
		bar,
		m.percent,
		formatElapsed(time.Since(m.started)))
	return b.String()
}

// Done returns whether the model has finished (work done or error).
func (m RenderModel) Done() bool {
	return m.done
}

// Aborted returns whether the user quit before the work finished.
func (m RenderModel) Aborted() bool {
	return m.aborted
}

// Err returns any fatal error that occurred.
func (m RenderModel) Err() error {
	return m.err
}

// Stage returns the currently displayed stage.
func (m RenderModel) Stage() string {
	return m.stage
}

// Percent returns the currently displayed percent.
func (m RenderModel) Percent() int {
	return m.percent
}

// padStage pads stage names to a common width so the bar doesn't jitter.
func padStage(stage string) string {
	const width = 14 // len("building-graph")
	if len(stage) >= width {
		return stage
	}
	return stage + strings.Repeat(" ", width-len(stage))
}

// formatElapsed formats a duration for display next to the bar.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
