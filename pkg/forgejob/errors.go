package forgejob

import "fmt"

// The run error taxonomy. Only JobCreationError and JobStartError
// abort a run; everything after log streaming begins degrades the
// report but still yields a document and a verdict, because the
// operator's primary need (a report plus an exit code) must be
// satisfiable even under partial infrastructure failure.

// JobCreationError means job submission failed; nothing was started.
type JobCreationError struct {
	Err error
}

func (e *JobCreationError) Error() string {
	return fmt.Sprintf("create job: %v", e.Err)
}

func (e *JobCreationError) Unwrap() error { return e.Err }

// JobStartError means the job never left pending.
type JobStartError struct {
	JobName string
	Err     error
}

func (e *JobStartError) Error() string {
	return fmt.Sprintf("job %s did not start: %v", e.JobName, e.Err)
}

func (e *JobStartError) Unwrap() error { return e.Err }

// LogStreamError means the log tail ended abnormally. Non-fatal: the
// job may have genuinely finished, so the flow proceeds to the status
// query regardless.
type LogStreamError struct {
	JobName string
	Err     error
}

func (e *LogStreamError) Error() string {
	return fmt.Sprintf("stream logs for job %s: %v", e.JobName, e.Err)
}

func (e *LogStreamError) Unwrap() error { return e.Err }

// StatusUnavailableError means the final status query failed. The run
// is recorded as failed at the cluster level (fail-safe default).
type StatusUnavailableError struct {
	JobName string
	Err     error
}

func (e *StatusUnavailableError) Error() string {
	return fmt.Sprintf("status for job %s unavailable: %v", e.JobName, e.Err)
}

func (e *StatusUnavailableError) Unwrap() error { return e.Err }
