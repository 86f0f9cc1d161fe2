package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(e *Extractor, lines ...string) {
	for _, line := range lines {
		e.Consume(line)
	}
}

func TestExtractor_NoMarkerBlock(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantText string
	}{
		{
			name:     "empty stream",
			lines:    nil,
			wantText: TerminatedText,
		},
		{
			name:     "noise only",
			lines:    []string{"compiling...", "running 42 tests", "INFO node started"},
			wantText: TerminatedText,
		},
		{
			name: "caused by takes the next non-empty line",
			lines: []string{
				"thread panicked",
				"Caused by:",
				"",
				"  connection refused to validator-3  ",
				"stack backtrace:",
			},
			wantText: "connection refused to validator-3",
		},
		{
			name: "only the first line after the trigger fires",
			lines: []string{
				"Caused by:",
				"root cause",
				"Caused by:",
				"later cause",
			},
			// The one-shot flag re-arms on the second trigger, but the
			// first captured cause is kept only if nothing overwrites it.
			wantText: "later cause",
		},
		{
			name:     "trigger with no following line",
			lines:    []string{"Caused by:"},
			wantText: TerminatedText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			feed(e, tt.lines...)

			doc, err := e.Finalize()
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, doc.Text)
		})
	}
}

func TestExtractor_SingleBlock(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"noise before",
		"json-report-begin",
		`{"text":"X"}`,
		"json-report-end",
		"noise after",
	)

	doc, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "X", doc.Text)
	assert.Empty(t, doc.Extra)
}

func TestExtractor_MultilineBlockWithPassthroughKeys(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"json-report-begin",
		`{`,
		`  "text": "42 nodes healthy",`,
		`  "tps": 1200,`,
		`  "commit": "abc123"`,
		`}`,
		"json-report-end",
	)

	doc, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "42 nodes healthy", doc.Text)
	assert.Equal(t, float64(1200), doc.Extra["tps"])
	assert.Equal(t, "abc123", doc.Extra["commit"])
}

func TestExtractor_LastBlockWins(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"json-report-begin",
		`{"text":"progress: 50%"}`,
		"json-report-end",
		"more output",
		"json-report-begin",
		`{"text":"final"}`,
		"json-report-end",
	)

	doc, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "final", doc.Text)
}

func TestExtractor_ResultOKSentinel(t *testing.T) {
	t.Run("seen outside a block", func(t *testing.T) {
		e := NewExtractor()
		feed(e, "test result: ok. 120 passed; 0 failed")
		assert.True(t, e.SawResultOK())
	})

	t.Run("seen inside a block", func(t *testing.T) {
		e := NewExtractor()
		feed(e, "json-report-begin", "test result: ok", "json-report-end")
		assert.True(t, e.SawResultOK())
	})

	t.Run("absent", func(t *testing.T) {
		e := NewExtractor()
		feed(e, "test result: FAILED")
		assert.False(t, e.SawResultOK())
	})
}

func TestExtractor_MalformedBlockFallsBack(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"json-report-begin",
		`{"text": not json at all`,
		"json-report-end",
	)

	doc, err := e.Finalize()
	require.Error(t, err)

	var malformed *MalformedReportError
	require.ErrorAs(t, err, &malformed)

	require.NotNil(t, doc)
	assert.Equal(t, TerminatedText, doc.Text)
}

func TestExtractor_MalformedBlockPrefersFailureCause(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"Caused by:",
		"out of memory",
		"json-report-begin",
		"garbage",
		"json-report-end",
	)

	doc, err := e.Finalize()
	require.Error(t, err)
	assert.Equal(t, "out of memory", doc.Text)
}

func TestExtractor_EmptyTextFilledFromCause(t *testing.T) {
	e := NewExtractor()
	feed(e,
		"Caused by:",
		"disk full",
		"json-report-begin",
		`{"tps": 7}`,
		"json-report-end",
	)

	doc, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "disk full", doc.Text)
	assert.Equal(t, float64(7), doc.Extra["tps"])
}

func TestExtractor_UnterminatedBlockStillFinalizes(t *testing.T) {
	// A begin marker without an end marker means the runner died
	// mid-report; captured lines still finalize as the block.
	e := NewExtractor()
	feed(e,
		"json-report-begin",
		`{"text":"partial"}`,
	)

	doc, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "partial", doc.Text)
}
