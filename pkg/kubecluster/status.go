package kubecluster

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

// jobState is the subset of the Job status we read back.
type jobState struct {
	Status struct {
		Active     int `json:"active"`
		Succeeded  int `json:"succeeded"`
		Failed     int `json:"failed"`
		Conditions []struct {
			Type    string `json:"type"`
			Status  string `json:"status"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"conditions"`
	} `json:"status"`
}

func parseJobState(data []byte) (*jobState, error) {
	var js jobState
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, fmt.Errorf("parse job status: %w", err)
	}
	return &js, nil
}

func (c *Client) jobState(ctx context.Context, handle *forgejob.Handle) (*jobState, error) {
	out, err := c.run(ctx, nil, "get", "job", handle.JobName, "-o", "json")
	if err != nil {
		return nil, err
	}
	return parseJobState(out)
}

// AwaitStart polls the job until a pod left pending, pacing queries
// with a rate limiter. It returns an error when the job reports a
// failure before any pod ran. Cancellation comes from ctx; this loop
// has no retry policy of its own beyond the poll.
func (c *Client) AwaitStart(ctx context.Context, handle *forgejob.Handle) error {
	limiter := rate.NewLimiter(rate.Every(c.cfg.PollInterval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		js, err := c.jobState(ctx, handle)
		if err != nil {
			// The job object can lag the apply; keep polling.
			c.cfg.Logger.Debug("Job not visible yet: " + err.Error())
			continue
		}

		switch {
		case js.Status.Active > 0 || js.Status.Succeeded > 0:
			return nil
		case js.Status.Failed > 0:
			return fmt.Errorf("job failed before any pod started: %s", failureReason(js))
		}
	}
}

// Status reports the final cluster-level job state.
func (c *Client) Status(ctx context.Context, handle *forgejob.Handle) (*forgejob.Status, error) {
	js, err := c.jobState(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &forgejob.Status{
		Failed: js.Status.Failed > 0,
		Reason: failureReason(js),
	}, nil
}

func failureReason(js *jobState) string {
	for _, cond := range js.Status.Conditions {
		if cond.Type == "Failed" && cond.Status == "True" {
			if cond.Reason != "" {
				return cond.Reason
			}
			return cond.Message
		}
	}
	return ""
}
