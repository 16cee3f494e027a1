package tui

// StageMsg updates the displayed pipeline stage and overall percent.
type StageMsg struct {
	Stage   string
	Percent int
}

// WorkDoneMsg signals that the render finished.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
