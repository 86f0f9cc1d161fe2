package report

import (
	"strings"
)

// Marker tokens emitted by the forge test runner around its final
// JSON report. The tokens appear inside otherwise unstructured log
// output, so matching is containment-based rather than whole-line.
const (
	BeginMarker = "json-report-begin"
	EndMarker   = "json-report-end"

	// resultOKSentinel is printed by the test harness itself when the
	// test body passed, independent of the structured report.
	resultOKSentinel = "test result: ok"

	// causedByTrigger precedes a root-cause line in runner panics.
	causedByTrigger = "Caused by:"
)

type scanState int

const (
	stateSeeking scanState = iota
	stateCapturing
)

// Extractor scans a line-oriented log stream for the delimited report
// block, the pass sentinel, and a fallback failure-cause line.
//
// It is a small finite-state machine fed one line at a time in stream
// order. A repeated begin marker discards earlier captured lines, so
// the last complete block wins; runners that emit progress markers
// before the final report still yield the final report.
//
// Extractor is not safe for concurrent use; the log stream is a single
// ordered sequence and is consumed by exactly one goroutine.
type Extractor struct {
	state       scanState
	markerLines []string

	sawResultOK  bool
	failureCause string

	// captureCause is armed by a "Caused by:" line; the next non-empty
	// line is taken as the failure cause, then the flag is disarmed.
	captureCause bool
}

// NewExtractor returns an extractor in the seeking state.
func NewExtractor() *Extractor {
	return &Extractor{state: stateSeeking}
}

// Consume feeds one raw log line to the state machine.
func (e *Extractor) Consume(line string) {
	if strings.Contains(line, resultOKSentinel) {
		e.sawResultOK = true
	}

	switch e.state {
	case stateCapturing:
		if strings.Contains(line, EndMarker) {
			e.state = stateSeeking
			return
		}
		e.markerLines = append(e.markerLines, line)

	case stateSeeking:
		if strings.Contains(line, BeginMarker) {
			// Last-wins: a new block overwrites anything captured earlier.
			e.state = stateCapturing
			e.markerLines = nil
			return
		}
		if e.captureCause {
			if cause := strings.TrimSpace(line); cause != "" {
				e.failureCause = cause
				e.captureCause = false
				return
			}
			return
		}
		if strings.Contains(line, causedByTrigger) {
			e.captureCause = true
		}
	}
}

// SawResultOK reports whether the pass sentinel appeared anywhere in
// the stream.
func (e *Extractor) SawResultOK() bool {
	return e.sawResultOK
}

// FailureCause returns the captured root-cause line, if any.
func (e *Extractor) FailureCause() string {
	return e.failureCause
}

// Finalize assembles the captured block into a report document. It is
// called once, after the stream has closed.
//
// The returned document is always usable: when no block was captured,
// or the block is not valid JSON, the generic terminated document is
// returned (with the failure cause as text when one was seen). A
// malformed block additionally yields a *MalformedReportError so the
// caller can log the degradation.
func (e *Extractor) Finalize() (*Document, error) {
	var (
		doc      *Document
		parseErr error
	)

	if len(e.markerLines) > 0 {
		raw := strings.Join(e.markerLines, "\n")
		doc, parseErr = ParseDocument(raw)
		if parseErr != nil {
			doc = nil
		}
	}
	if doc == nil {
		doc = &Document{}
	}

	if doc.Text == "" {
		if e.failureCause != "" {
			doc.Text = e.failureCause
		} else {
			doc.Text = TerminatedText
		}
	}

	return doc, parseErr
}
