package sqlrun

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/studio1767/s3ingest/internal/s3io"
)

// QueryService is the capability surface of the query execution
// service: start a query, poll its state.
type QueryService interface {
	Start(ctx context.Context, sql string) (string, error)
	Status(ctx context.Context, queryID string) (state string, reason string, err error)
}

// ScriptResult records one executed script.
type ScriptResult struct {
	Key     string
	QueryID string
	State   string
}

type ErrQueryFailed struct {
	Key    string
	State  string
	Reason string
}

func (e *ErrQueryFailed) Error() string {
	return fmt.Sprintf("query failed for %s: state=%s reason=%s", e.Key, e.State, e.Reason)
}

type ErrQueryTimeout struct {
	QueryID string
}

func (e *ErrQueryTimeout) Error() string {
	return fmt.Sprintf("query %s did not finish in time", e.QueryID)
}

// Sequencer runs every .sql script under a prefix in lexicographic
// key order (the 001_/002_ naming convention), waiting for each to
// finish before starting the next. The first non-succeeded query
// aborts the sequence.
type Sequencer struct {
	store        s3io.Client
	queries      QueryService
	prefix       string
	pollInterval time.Duration
	maxPolls     int
}

func NewSequencer(store s3io.Client, queries QueryService, prefix string, pollInterval time.Duration, maxPolls int) *Sequencer {
	return &Sequencer{
		store:        store,
		queries:      queries,
		prefix:       strings.Trim(prefix, "/") + "/",
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
	}
}

func (sq *Sequencer) Run(ctx context.Context) ([]ScriptResult, error) {
	keys, err := sq.listScripts()
	if err != nil {
		return nil, err
	}

	var results []ScriptResult

	for _, key := range keys {
		data := bytes.NewBuffer(nil)
		if _, err := sq.store.Download(key, data); err != nil {
			return results, fmt.Errorf("download %s: %w", key, err)
		}

		sql := strings.TrimSpace(data.String())
		if sql == "" {
			slog.Warn("skipping empty sql script", "key", key)
			continue
		}

		slog.Info("running", "key", fmt.Sprintf("s3://%s/%s", sq.store.Bucket(), key))

		queryID, err := sq.queries.Start(ctx, sql)
		if err != nil {
			return results, fmt.Errorf("start query for %s: %w", key, err)
		}

		runState, reason, err := sq.wait(ctx, queryID)
		if err != nil {
			return results, err
		}

		results = append(results, ScriptResult{
			Key:     key,
			QueryID: queryID,
			State:   runState,
		})

		if runState != "SUCCEEDED" {
			return results, &ErrQueryFailed{
				Key:    key,
				State:  runState,
				Reason: reason,
			}
		}
	}

	return results, nil
}

func (sq *Sequencer) listScripts() ([]string, error) {
	objects, err := sq.store.List(sq.prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".sql") {
			keys = append(keys, obj.Key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

func terminal(runState string) bool {
	switch runState {
	case "SUCCEEDED", "FAILED", "CANCELLED":
		return true
	}
	return false
}

func (sq *Sequencer) wait(ctx context.Context, queryID string) (string, string, error) {
	for i := 0; i < sq.maxPolls; i++ {
		runState, reason, err := sq.queries.Status(ctx, queryID)
		if err != nil {
			return "", "", fmt.Errorf("query status %s: %w", queryID, err)
		}
		if terminal(runState) {
			return runState, reason, nil
		}

		select {
		case <-ctx.Done():
			return "", "", ctx.Err()
		case <-time.After(sq.pollInterval):
		}
	}

	return "", "", &ErrQueryTimeout{QueryID: queryID}
}
