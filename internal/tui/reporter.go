package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"promoreel/internal/render"
)

// Sink adapts bubbletea message sending to the render engine's progress
// callback.
func Sink(send func(tea.Msg)) render.ProgressSink {
	return func(stage string, percent int) {
		send(StageMsg{Stage: stage, Percent: percent})
	}
}

// PlainSink returns a progress sink that logs stage transitions as plain
// lines, for non-interactive output.
func PlainSink(w io.Writer) render.ProgressSink {
	var mu sync.Mutex
	last := ""
	return func(stage string, percent int) {
		mu.Lock()
		defer mu.Unlock()
		if stage == last {
			return
		}
		last = stage
		fmt.Fprintf(w, "%s (%d%%)\n", stage, percent)
	}
}
