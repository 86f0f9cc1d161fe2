package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	require.Error(t, Config{}.Validate())
	require.NoError(t, Config{Bucket: "forge-ci"}.Validate())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "forge-runs/forge-alice-1a2b3c4d/report.json",
		Key("forge-runs", "forge-alice-1a2b3c4d", "report.json"))

	// No prefix: key starts at the job name.
	assert.Equal(t, "forge-alice-1a2b3c4d/runner.log",
		Key("", "forge-alice-1a2b3c4d", "runner.log"))
}
