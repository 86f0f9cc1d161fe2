package forgejob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/3leaps/forgerun/pkg/obslinks"
	"github.com/3leaps/forgerun/pkg/report"
	"github.com/3leaps/forgerun/pkg/term"
)

// DefaultSkewCorrection widens the observability window backwards to
// cover clock and poll latency skew between the start poll returning
// and the pod actually starting.
const DefaultSkewCorrection = time.Second

// Config wires an Orchestrator.
type Config struct {
	Submitter Submitter
	Waiter    Waiter
	Tailer    LogTailer
	Status    StatusQuerier

	// Sink receives every raw log line. Required.
	Sink LogSink

	// Links builds the dashboard/log-search URLs.
	Links obslinks.Config

	// ReportPath is where the finalized report document is persisted.
	ReportPath string

	// SkewCorrection defaults to DefaultSkewCorrection when zero.
	SkewCorrection time.Duration

	Logger *zap.Logger
	Styles term.Styles

	// Out receives human-readable progress. Defaults to os.Stdout.
	Out io.Writer

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Result is everything a run produced. A Result is returned whenever
// log streaming began, regardless of how degraded the run was.
type Result struct {
	Handle   *Handle
	Document *report.Document
	Verdict  report.Verdict
	Status   *Status
	Window   obslinks.Window
	Links    obslinks.Links
}

// Orchestrator drives one job through submission, start wait, log
// streaming, status query, report finalization and persistence.
type Orchestrator struct {
	cfg Config
}

// New creates an orchestrator, applying defaults for optional fields.
func New(cfg Config) *Orchestrator {
	if cfg.SkewCorrection <= 0 {
		cfg.SkewCorrection = DefaultSkewCorrection
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{cfg: cfg}
}

// Run executes the full lifecycle for one request.
//
// Only two failures abort the run: *JobCreationError and
// *JobStartError, both before any log line is seen. From the moment
// streaming starts every downstream error (tailer, status query,
// malformed report, persistence) is logged and degrades the document,
// but Run still returns a Result with a definite verdict.
func (o *Orchestrator) Run(ctx context.Context, req *Request) (*Result, error) {
	log := o.cfg.Logger

	o.progress("Submitting forge test job (image %s, base %s)", req.ImageTag, req.BaseImageTag)
	handle, err := o.cfg.Submitter.Submit(ctx, req)
	if err != nil {
		return nil, &JobCreationError{Err: err}
	}
	if handle == nil || handle.JobName == "" {
		return nil, &JobCreationError{Err: fmt.Errorf("submitter returned empty job handle")}
	}
	log.Info("Job submitted",
		zap.String("job", handle.JobName),
		zap.String("context", handle.Context))

	o.progress("Waiting for job %s to start", handle.JobName)
	if err := o.cfg.Waiter.AwaitStart(ctx, handle); err != nil {
		return nil, &JobStartError{JobName: handle.JobName, Err: err}
	}

	startMS := o.cfg.Now().Add(-o.cfg.SkewCorrection).UnixMilli()
	o.progress("Job %s is running. Watch it live:", handle.JobName)
	o.progress("  %s", o.cfg.Styles.Link(o.cfg.Links.BuildLive(req.Workspace, startMS)))

	extractor := report.NewExtractor()
	o.streamLogs(ctx, handle, extractor)

	status := o.queryStatus(ctx, handle)

	endMS := o.cfg.Now().UnixMilli()
	if endMS < startMS {
		endMS = startMS
	}
	window := obslinks.Window{StartMS: startMS, EndMS: endMS}
	links := o.cfg.Links.Build(req.Workspace, window)

	doc, err := extractor.Finalize()
	if err != nil {
		log.Warn("Report block could not be parsed; using generic report",
			zap.String("job", handle.JobName),
			zap.Error(err))
	}
	doc.Logs = links.Logs
	doc.Dashboard = links.Dashboard

	verdict := report.Classify(status.Failed, extractor.SawResultOK())
	if extractor.SawResultOK() && status.Failed {
		log.Warn("Test body passed but the cluster marked the job failed (pod eviction?)",
			zap.String("job", handle.JobName),
			zap.String("reason", status.Reason))
	}

	if o.cfg.ReportPath != "" {
		if err := writeDocument(o.cfg.ReportPath, doc); err != nil {
			log.Error("Failed to persist report", zap.String("path", o.cfg.ReportPath), zap.Error(err))
		} else {
			o.progress("Report written to %s", o.cfg.ReportPath)
		}
	}

	o.progress("Job %s finished (cluster status: %s)", handle.JobName, statusText(status))
	o.progress("  dashboard: %s", o.cfg.Styles.Link(links.Dashboard))
	o.progress("  logs:      %s", o.cfg.Styles.Link(links.Logs))

	return &Result{
		Handle:   handle,
		Document: doc,
		Verdict:  verdict,
		Status:   status,
		Window:   window,
		Links:    links,
	}, nil
}

// streamLogs consumes the log stream, tee-ing each line to the sink
// and the extractor. Tailer and sink errors are non-fatal; the job may
// have genuinely finished even when the tail breaks.
func (o *Orchestrator) streamLogs(ctx context.Context, handle *Handle, extractor *report.Extractor) {
	log := o.cfg.Logger

	err := o.cfg.Tailer.Stream(ctx, handle, func(line string) error {
		extractor.Consume(line)
		if err := o.cfg.Sink.WriteLine(line); err != nil {
			log.Warn("Log sink write failed", zap.Error(err))
		}
		return nil
	})
	if err != nil {
		streamErr := &LogStreamError{JobName: handle.JobName, Err: err}
		log.Warn("Log stream ended abnormally; proceeding to status query",
			zap.Error(streamErr))
	}
	if err := o.cfg.Sink.Close(); err != nil {
		log.Warn("Log sink close failed", zap.Error(err))
	}
}

// queryStatus fetches the final job status, defaulting to failed when
// the query itself breaks.
func (o *Orchestrator) queryStatus(ctx context.Context, handle *Handle) *Status {
	status, err := o.cfg.Status.Status(ctx, handle)
	if err != nil {
		statusErr := &StatusUnavailableError{JobName: handle.JobName, Err: err}
		o.cfg.Logger.Warn("Job status unavailable; recording as failed", zap.Error(statusErr))
		return &Status{Failed: true, Reason: "status unavailable"}
	}
	return status
}

func (o *Orchestrator) progress(format string, args ...any) {
	_, _ = fmt.Fprintf(o.cfg.Out, format+"\n", args...)
}

func statusText(s *Status) string {
	if !s.Failed {
		return "succeeded"
	}
	if s.Reason != "" {
		return "failed (" + s.Reason + ")"
	}
	return "failed"
}

func writeDocument(path string, doc *report.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
