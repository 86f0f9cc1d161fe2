package report

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// TerminatedText is the fallback report text used when the runner
// produced no structured report and no failure cause was captured.
const TerminatedText = "Forge test runner is terminated"

// Document is the persisted run report.
//
// Text, Logs and Dashboard are the contract fields; Extra carries any
// additional keys the runner put in its marker JSON, passed through
// verbatim so runner-side report extensions survive without a schema
// change here.
type Document struct {
	Text      string `json:"text" mapstructure:"text"`
	Logs      string `json:"logs,omitempty" mapstructure:"-"`
	Dashboard string `json:"dashboard,omitempty" mapstructure:"-"`

	Extra map[string]any `json:"-" mapstructure:"-"`
}

// MalformedReportError indicates the captured marker block was not a
// valid JSON object. The run still produces a generic document.
type MalformedReportError struct {
	Err error
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed report block: %v", e.Err)
}

func (e *MalformedReportError) Unwrap() error {
	return e.Err
}

// ParseDocument parses the concatenated marker block into a Document.
func ParseDocument(raw string) (*Document, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &MalformedReportError{Err: err}
	}
	return documentFromMap(m), nil
}

func documentFromMap(m map[string]any) *Document {
	var doc Document
	// Best-effort projection of known fields; a non-string "text" is
	// treated the same as a missing one.
	_ = mapstructure.Decode(m, &doc)

	for k, v := range m {
		switch k {
		case "text", "logs", "dashboard":
		default:
			if doc.Extra == nil {
				doc.Extra = make(map[string]any)
			}
			doc.Extra[k] = v
		}
	}
	return &doc
}

// MarshalJSON flattens Extra alongside the contract fields. Contract
// fields win on key collision.
func (d *Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+3)
	for k, v := range d.Extra {
		m[k] = v
	}
	m["text"] = d.Text
	if d.Logs != "" {
		m["logs"] = d.Logs
	}
	if d.Dashboard != "" {
		m["dashboard"] = d.Dashboard
	}
	return json.Marshal(m)
}
