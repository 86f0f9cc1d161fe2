package report

// Verdict is the final pass/fail determination for a run, surfaced as
// the process exit code.
type Verdict int

const (
	VerdictFailed Verdict = iota
	VerdictPassed
)

func (v Verdict) String() string {
	if v == VerdictPassed {
		return "passed"
	}
	return "failed"
}

// ExitCode maps the verdict to the process exit code contract.
func (v Verdict) ExitCode() int {
	if v == VerdictPassed {
		return 0
	}
	return 1
}

// Classify derives the verdict from the two completion signals.
//
// The runner's own pass sentinel is authoritative: a job can be marked
// failed at the infrastructure level (pod eviction) after the test
// body already passed, and vice versa. The cluster-level status is
// surfaced to the operator separately; a mismatch is the caller's to
// log, never silently reconciled here.
func Classify(jobFailed, sawResultOK bool) Verdict {
	if sawResultOK {
		return VerdictPassed
	}
	return VerdictFailed
}
