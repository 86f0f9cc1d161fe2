package kubecluster

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

// maxLogLine bounds a single runner log line. Marker blocks are a few
// KiB; anything past 1 MiB is a runaway line, not a report.
const maxLogLine = 1024 * 1024

// Stream follows the job's logs, invoking fn per line in emission
// order. It returns when kubectl exits (pod terminated or evicted) or
// when fn returns an error.
func (c *Client) Stream(ctx context.Context, handle *forgejob.Handle, fn func(line string) error) error {
	cmd := c.command(ctx, "logs", "-f", "job/"+handle.JobName)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open log pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start log tail: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)

	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return err
		}
	}
	scanErr := scanner.Err()
	waitErr := cmd.Wait()

	if scanErr != nil {
		return fmt.Errorf("read log stream: %w", scanErr)
	}
	if waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("log tail exited: %w: %s", waitErr, msg)
		}
		return fmt.Errorf("log tail exited: %w", waitErr)
	}
	return nil
}
