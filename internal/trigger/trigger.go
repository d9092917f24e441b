package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Run is one recent execution of the downstream transform job.
type Run struct {
	ID    string
	State string
}

// Runner is the capability surface of the job execution service.
type Runner interface {
	ListRecentRuns(ctx context.Context, jobName string) ([]Run, error)
	StartRun(ctx context.Context, jobName string, args map[string]string) (string, error)
}

// Outcome tags the guard's decision so callers can tell a
// best-effort-protected start from an unprotected one.
type Outcome int

const (
	// no new or changed files; nothing to transform
	NoNewFiles Outcome = iota
	// an existing run is still in flight
	Blocked
	// a run was started after a clean in-flight check
	Started
	// the in-flight check failed, a run was started anyway: the
	// guard prefers availability over strict single-run exclusion
	StartedUnguarded
)

// Decision is the guard's tagged result.
type Decision struct {
	Outcome       Outcome
	Reason        string
	RunID         string
	ExistingRunID string
}

func (d *Decision) Started() bool {
	return d.Outcome == Started || d.Outcome == StartedUnguarded
}

// Guard decides whether to start the downstream transform job after a
// batch. The in-flight check is advisory only: it may under-protect
// under races or when the service is unreachable, and callers must
// not assume strict mutual exclusion.
type Guard struct {
	runner  Runner
	jobName string
	bucket  string
	prefix  string
}

func NewGuard(runner Runner, jobName, bucket, prefix string) *Guard {
	return &Guard{
		runner:  runner,
		jobName: jobName,
		bucket:  bucket,
		prefix:  prefix,
	}
}

func nonTerminal(runState string) bool {
	switch strings.ToUpper(runState) {
	case "STARTING", "RUNNING", "STOPPING":
		return true
	}
	return false
}

// MaybeTrigger applies the decision table: nothing processed means no
// start regardless of run state; an in-flight run blocks; otherwise a
// run starts with the batch counts as metadata.
func (g *Guard) MaybeTrigger(ctx context.Context, processed, skipped, unmapped int) (*Decision, error) {
	if processed <= 0 {
		return &Decision{
			Outcome: NoNewFiles,
			Reason:  "no new/changed files to process",
		}, nil
	}

	checked := true
	runs, err := g.runner.ListRecentRuns(ctx, g.jobName)
	if err != nil {
		// the guard is advisory: a failed check must not block
		// ingestion indefinitely
		slog.Warn("could not check existing runs; proceeding", "job", g.jobName, "error", err)
		checked = false
	}

	for _, run := range runs {
		if nonTerminal(run.State) {
			return &Decision{
				Outcome:       Blocked,
				Reason:        fmt.Sprintf("job already %s", strings.ToUpper(run.State)),
				ExistingRunID: run.ID,
			}, nil
		}
	}

	args := map[string]string{
		"--triggered_by":    "s3ingest",
		"--s3_bucket":       g.bucket,
		"--s3_prefix":       g.prefix,
		"--processed_files": strconv.Itoa(processed),
		"--skipped_files":   strconv.Itoa(skipped),
		"--unmapped_files":  strconv.Itoa(unmapped),
		"--run_ts_utc":      time.Now().UTC().Format(time.RFC3339),
	}

	runID, err := g.runner.StartRun(ctx, g.jobName, args)
	if err != nil {
		return nil, fmt.Errorf("start run for %s: %w", g.jobName, err)
	}

	decision := Decision{
		Outcome: Started,
		Reason:  "started",
		RunID:   runID,
	}
	if !checked {
		decision.Outcome = StartedUnguarded
		decision.Reason = "started without in-flight check"
	}

	return &decision, nil
}
