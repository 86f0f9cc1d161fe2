package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		jobFailed   bool
		sawResultOK bool
		want        Verdict
	}{
		{
			name:        "sentinel wins over failed job status",
			jobFailed:   true,
			sawResultOK: true,
			want:        VerdictPassed,
		},
		{
			name:        "clean pass",
			jobFailed:   false,
			sawResultOK: true,
			want:        VerdictPassed,
		},
		{
			name:        "no sentinel means failed even when job succeeded",
			jobFailed:   false,
			sawResultOK: false,
			want:        VerdictFailed,
		},
		{
			name:        "clean failure",
			jobFailed:   true,
			sawResultOK: false,
			want:        VerdictFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.jobFailed, tt.sawResultOK))
		})
	}
}

func TestVerdict_ExitCode(t *testing.T) {
	assert.Equal(t, 0, VerdictPassed.ExitCode())
	assert.Equal(t, 1, VerdictFailed.ExitCode())
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "passed", VerdictPassed.String())
	assert.Equal(t, "failed", VerdictFailed.String())
}
