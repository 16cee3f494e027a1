package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted reports that the user quit the progress UI before the work
// finished.
var ErrAborted = errors.New("render aborted")

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until both the program and workFn have returned. workFn gets a
// context that is canceled when the user quits early, and a send callback
// that wraps tea.Program.Send with a small yield so the renderer gets a
// chance to draw between rapid-fire updates.
func RunWithWork(ctx context.Context, out io.Writer, model RenderModel, workFn func(ctx context.Context, send func(tea.Msg)), opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithOutput(out)}, opts...)
	p := tea.NewProgram(model, opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)

		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		workFn(ctx, func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(5 * time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()

	// An early quit cancels the work; wait for the goroutine to unwind so
	// callers never observe a half-written result.
	cancel()
	<-done

	if err != nil {
		return err
	}
	if m, ok := finalModel.(RenderModel); ok {
		if m.Err() != nil {
			return m.Err()
		}
		if m.Aborted() {
			return ErrAborted
		}
	}
	return nil
}
