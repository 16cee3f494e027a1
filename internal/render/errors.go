package render

import (
	"fmt"
	"strings"
	"time"

	"promoreel/internal/timeline"
)

// InvalidTimelineError reports timeline validation failures. It is surfaced
// before any subprocess launch or asset download.
type InvalidTimelineError struct {
	Findings []timeline.Finding
}

func (e *InvalidTimelineError) Error() string {
	parts := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		parts[i] = f.String()
	}
	return "invalid timeline: " + strings.Join(parts, "; ")
}

// AssetUnavailableError reports an asset failure the resolver could not
// degrade around, such as placeholder generation failing on a dead disk.
type AssetUnavailableError struct {
	Cause error
}

func (e *AssetUnavailableError) Error() string {
	return fmt.Sprintf("asset resolution failed: %v", e.Cause)
}

func (e *AssetUnavailableError) Unwrap() error {
	return e.Cause
}

// EncoderFailureError reports a nonzero encoder exit, retaining the tail of
// its diagnostic output.
type EncoderFailureError struct {
	ExitCode int
	Tail     []string
}

func (e *EncoderFailureError) Error() string {
	msg := fmt.Sprintf("encoder exited with code %d", e.ExitCode)
	if len(e.Tail) > 0 {
		msg += ": " + e.Tail[len(e.Tail)-1]
	}
	return msg
}

// EncoderTimeoutError reports the stall watchdog force-killing the encoder.
type EncoderTimeoutError struct {
	Stall time.Duration
}

func (e *EncoderTimeoutError) Error() string {
	return fmt.Sprintf("encoder stalled: no diagnostic output for %s", e.Stall)
}

// SpawnError reports that the encoder subprocess could not be started at all.
type SpawnError struct {
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not start encoder: %v", e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}
