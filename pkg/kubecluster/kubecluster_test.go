package kubecluster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

func TestJobName(t *testing.T) {
	name := jobName("Alice")
	assert.True(t, strings.HasPrefix(name, "forge-alice-"), "got %s", name)
	assert.Len(t, name, len("forge-alice-")+8)

	// Unique per submission.
	assert.NotEqual(t, jobName("alice"), jobName("alice"))

	assert.True(t, strings.HasPrefix(jobName("  "), "forge-anon-"))
}

func TestJobManifest(t *testing.T) {
	req := &forgejob.Request{
		User:         "alice",
		ImageTag:     "registry.example/forge:sha-abc",
		BaseImageTag: "v1.2.0",
		Workspace:    "w1",
		Timeout:      1800 * time.Second,
		Env: []forgejob.EnvVar{
			{Name: "CLUSTER_SIZE", Value: "5"},
			{Name: "SEED", Value: "42"},
		},
		Args: []string{"--duration", "600"},
	}

	m := jobManifest("forge-alice-1a2b3c4d", "forge-ns", req)

	// Round-trips through YAML, which is what kubectl receives.
	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "name: forge-alice-1a2b3c4d")
	assert.Contains(t, text, "namespace: forge-ns")
	assert.Contains(t, text, "registry.example/forge:sha-abc")
	assert.Contains(t, text, "activeDeadlineSeconds: 1800")
	assert.Contains(t, text, "restartPolicy: Never")
	assert.Contains(t, text, "backoffLimit: 0")

	// Base image tag rides along as an env var, user env follows in order.
	baseIdx := strings.Index(text, "FORGE_BASE_IMAGE_TAG")
	clusterIdx := strings.Index(text, "CLUSTER_SIZE")
	seedIdx := strings.Index(text, "SEED")
	require.NotEqual(t, -1, baseIdx)
	require.NotEqual(t, -1, clusterIdx)
	require.NotEqual(t, -1, seedIdx)
	assert.Less(t, baseIdx, clusterIdx)
	assert.Less(t, clusterIdx, seedIdx)
}

func TestJobManifest_NoTimeoutNoDeadline(t *testing.T) {
	m := jobManifest("forge-a-12345678", "default", &forgejob.Request{User: "a", ImageTag: "img"})

	spec, ok := m["spec"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, spec, "activeDeadlineSeconds")
}

func TestParseJobState(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantFailed bool
		wantReason string
	}{
		{
			name:       "running",
			json:       `{"status":{"active":1}}`,
			wantFailed: false,
		},
		{
			name:       "succeeded",
			json:       `{"status":{"succeeded":1}}`,
			wantFailed: false,
		},
		{
			name: "failed with condition reason",
			json: `{"status":{"failed":1,"conditions":[
				{"type":"Failed","status":"True","reason":"DeadlineExceeded","message":"Job was active longer than specified deadline"}
			]}}`,
			wantFailed: true,
			wantReason: "DeadlineExceeded",
		},
		{
			name: "failed with message only",
			json: `{"status":{"failed":1,"conditions":[
				{"type":"Failed","status":"True","message":"pod evicted"}
			]}}`,
			wantFailed: true,
			wantReason: "pod evicted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, err := parseJobState([]byte(tt.json))
			require.NoError(t, err)

			assert.Equal(t, tt.wantFailed, js.Status.Failed > 0)
			assert.Equal(t, tt.wantReason, failureReason(js))
		})
	}
}

func TestParseJobState_Invalid(t *testing.T) {
	_, err := parseJobState([]byte("not json"))
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, "kubectl", c.cfg.Kubectl)
	assert.Equal(t, "default", c.cfg.Namespace)
	assert.Equal(t, 5*time.Second, c.cfg.PollInterval)
	assert.NotNil(t, c.cfg.Logger)
}
