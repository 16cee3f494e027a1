package render

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Stage phases, in order. Stage percentages map onto the job's overall
// 0..100 progress: preparation covers 0..50, the encode 50..95, and
// finalization the last stretch.
const (
	percentResolved  = 30.0
	percentGraph     = 50.0
	percentEncodeMax = 95.0
)

var timePattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)

// parseEncodedSeconds extracts the encoder's current position from one chunk
// of stderr output. Returns false when the chunk carries no time field.
func parseEncodedSeconds(line string) (float64, bool) {
	m := timePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	centis, _ := strconv.Atoi(m[4])
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(centis)/100, true
}

// encodePercent maps an encoder position onto the job's overall progress
// window. Output is clamped to [percentGraph, percentEncodeMax].
func encodePercent(encodedSec, totalSec float64) float64 {
	if totalSec <= 0 {
		return percentGraph
	}
	frac := clamp(encodedSec/totalSec, 0, 1)
	return percentGraph + frac*(percentEncodeMax-percentGraph)
}

// progressWriter tees encoder stderr three ways: progress callbacks from
// time= fields, an activity signal for the stall watchdog, and a bounded
// tail kept for failure diagnostics.
type progressWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	tail       []string
	tailLimit  int
	onProgress func(encodedSec float64)
	onActivity func()
}

func newProgressWriter(onProgress func(float64), onActivity func()) *progressWriter {
	return &progressWriter{
		tailLimit:  40,
		onProgress: onProgress,
		onActivity: onActivity,
	}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.buf.Write(p)
	lines := w.drainLocked()
	w.mu.Unlock()

	if w.onActivity != nil && len(p) > 0 {
		w.onActivity()
	}
	for _, line := range lines {
		if sec, ok := parseEncodedSeconds(line); ok && w.onProgress != nil {
			w.onProgress(sec)
		}
	}
	return len(p), nil
}

// drainLocked splits buffered output into complete lines. The encoder
// terminates status updates with carriage returns, so both \r and \n count
// as separators.
func (w *progressWriter) drainLocked() []string {
	var lines []string
	for {
		data := w.buf.Bytes()
		idx := bytes.IndexAny(data, "\r\n")
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(data[:idx]))
		w.buf.Next(idx + 1)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		w.tail = append(w.tail, line)
		if len(w.tail) > w.tailLimit {
			w.tail = w.tail[len(w.tail)-w.tailLimit:]
		}
	}
	return lines
}

// Tail returns the most recent stderr lines for error reports.
func (w *progressWriter) Tail() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.tail))
	copy(out, w.tail)
	return out
}
