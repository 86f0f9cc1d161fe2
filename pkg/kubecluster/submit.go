package kubecluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

const runnerContainerName = "forge-runner"

// Submit renders a minimal Job manifest for the request and applies it.
// The returned handle carries the generated job name, unique per
// submission.
func (c *Client) Submit(ctx context.Context, req *forgejob.Request) (*forgejob.Handle, error) {
	name := jobName(req.User)

	manifest, err := yaml.Marshal(jobManifest(name, c.cfg.Namespace, req))
	if err != nil {
		return nil, fmt.Errorf("render job manifest: %w", err)
	}

	if _, err := c.run(ctx, manifest, "apply", "-f", "-"); err != nil {
		return nil, err
	}

	return &forgejob.Handle{JobName: name, Context: c.cfg.Context}, nil
}

// jobName builds a per-submission unique name like forge-alice-1a2b3c4d.
func jobName(user string) string {
	u := strings.ToLower(strings.TrimSpace(user))
	if u == "" {
		u = "anon"
	}
	return fmt.Sprintf("forge-%s-%s", u, uuid.New().String()[:8])
}

// jobManifest builds the Job object. Deliberately minimal: one runner
// container, no retries (the report contract needs exactly one
// attempt's log stream), hard deadline from the request timeout.
func jobManifest(name, namespace string, req *forgejob.Request) map[string]any {
	env := make([]map[string]any, 0, len(req.Env)+1)
	env = append(env, map[string]any{
		"name":  "FORGE_BASE_IMAGE_TAG",
		"value": req.BaseImageTag,
	})
	for _, e := range req.Env {
		env = append(env, map[string]any{"name": e.Name, "value": e.Value})
	}

	container := map[string]any{
		"name":  runnerContainerName,
		"image": req.ImageTag,
		"env":   env,
	}
	if len(req.Args) > 0 {
		container["args"] = append([]string(nil), req.Args...)
	}

	spec := map[string]any{
		"backoffLimit": 0,
		"template": map[string]any{
			"metadata": map[string]any{
				"labels": map[string]any{"app": "forge-test-runner"},
			},
			"spec": map[string]any{
				"restartPolicy": "Never",
				"containers":    []map[string]any{container},
			},
		},
	}
	if req.Timeout > 0 {
		spec["activeDeadlineSeconds"] = int64(req.Timeout.Seconds())
	}

	return map[string]any{
		"apiVersion": "batch/v1",
		"kind":       "Job",
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
			"labels": map[string]any{
				"app":        "forge-test-runner",
				"forge/user": strings.ToLower(strings.TrimSpace(req.User)),
			},
		},
		"spec": spec,
	}
}
