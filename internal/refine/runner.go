package refine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studio1767/s3ingest/internal/route"
	"github.com/studio1767/s3ingest/internal/s3io"
)

// Status classifies one dataset's outcome within a run.
type Status int

const (
	StatusProcessed Status = iota
	StatusSkippedMissing
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkippedMissing:
		return "skipped_missing"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// DatasetResult is one dataset's outcome with a free-form diagnostic.
type DatasetResult struct {
	Dataset string
	Status  Status
	Detail  string
}

// Report aggregates the whole run. Every dataset is attempted before
// the report is final.
type Report struct {
	Processed      []DatasetResult
	SkippedMissing []DatasetResult
	Failed         []DatasetResult
}

func (r *Report) add(res DatasetResult) {
	switch res.Status {
	case StatusProcessed:
		r.Processed = append(r.Processed, res)
	case StatusSkippedMissing:
		r.SkippedMissing = append(r.SkippedMissing, res)
	case StatusFailed:
		r.Failed = append(r.Failed, res)
	}
}

// Results flattens the report into a per-dataset map for the entry
// point's structured output.
func (r *Report) Results() map[string]DatasetResult {
	out := make(map[string]DatasetResult)
	for _, list := range [][]DatasetResult{r.Processed, r.SkippedMissing, r.Failed} {
		for _, res := range list {
			out[res.Dataset] = res
		}
	}
	return out
}

// Options configures one transform run.
type Options struct {
	RawPrefix     string
	RefinedPrefix string
	WriteMode     string // "overwrite" or "append"
	Header        bool
	Delimiter     rune
	SkipMissing   bool
	FailOnError   bool
	Datasets      []string
}

// Runner executes the per-dataset transform: read raw, normalize,
// tag lineage, standardize missing markers, deduplicate, write
// refined. Datasets are independent failure domains: one failing
// never aborts the rest.
type Runner struct {
	raw     s3io.Client
	refined s3io.Client
	opts    Options
}

func NewRunner(raw, refined s3io.Client, opts Options) *Runner {
	opts.RawPrefix = strings.Trim(opts.RawPrefix, "/")
	opts.RefinedPrefix = strings.Trim(opts.RefinedPrefix, "/")
	if len(opts.Datasets) == 0 {
		opts.Datasets = route.DefaultDatasets()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.WriteMode == "" {
		opts.WriteMode = "overwrite"
	}

	return &Runner{
		raw:     raw,
		refined: refined,
		opts:    opts,
	}
}

// Run attempts every configured dataset and aggregates the outcomes.
// Only after all datasets are attempted does a non-empty failed set
// turn into a terminal error, and then only when FailOnError is set.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	// one ingestion timestamp for the whole run
	ingestedAt := time.Now().UTC().Format(time.RFC3339)

	report := &Report{}

	for _, dataset := range r.opts.Datasets {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		res := r.runDataset(dataset, ingestedAt)
		report.add(res)

		switch res.Status {
		case StatusProcessed:
			slog.Info("dataset refined", "dataset", dataset, "detail", res.Detail)
		case StatusSkippedMissing:
			slog.Warn("dataset skipped", "dataset", dataset, "reason", res.Detail)
		case StatusFailed:
			slog.Error("dataset failed", "dataset", dataset, "error", res.Detail)
		}
	}

	slog.Info("run summary",
		"processed", len(report.Processed),
		"skipped_missing", len(report.SkippedMissing),
		"failed", len(report.Failed))

	if r.opts.FailOnError && len(report.Failed) > 0 {
		var names []string
		for _, res := range report.Failed {
			names = append(names, res.Dataset)
		}
		return report, &ErrDatasetsFailed{Datasets: names}
	}

	return report, nil
}

func (r *Runner) runDataset(dataset, ingestedAt string) DatasetResult {
	reader := rawReader{
		client:    r.raw,
		header:    r.opts.Header,
		delimiter: r.opts.Delimiter,
	}

	rawPrefix := joinPrefix(r.opts.RawPrefix, dataset) + "/"

	table, sources, err := reader.load(rawPrefix)
	if err != nil {
		return r.classify(dataset, err)
	}

	table.NormalizeHeader()

	if err := table.AppendLineage(sources, ingestedAt); err != nil {
		return r.classify(dataset, err)
	}

	table.StandardizeMissing()

	removed := table.Dedup()
	slog.Info("dedup", "dataset", dataset, "removed", removed, "kept", len(table.Rows))

	key, err := r.writeRefined(dataset, table)
	if err != nil {
		return r.classify(dataset, err)
	}

	return DatasetResult{
		Dataset: dataset,
		Status:  StatusProcessed,
		Detail:  fmt.Sprintf("wrote %d rows to s3://%s/%s", len(table.Rows), r.refined.Bucket(), key),
	}
}

// classify maps a dataset error to its outcome: a missing raw
// location is benign when skip-missing is on, anything else is a
// recorded failure. Neither aborts the remaining datasets.
func (r *Runner) classify(dataset string, err error) DatasetResult {
	if r.opts.SkipMissing && isMissingLocation(err) {
		return DatasetResult{
			Dataset: dataset,
			Status:  StatusSkippedMissing,
			Detail:  err.Error(),
		}
	}
	return DatasetResult{
		Dataset: dataset,
		Status:  StatusFailed,
		Detail:  err.Error(),
	}
}

func (r *Runner) writeRefined(dataset string, table *Table) (string, error) {
	prefix := joinPrefix(r.opts.RefinedPrefix, dataset) + "/"

	// encode before touching the destination so a bad table can't
	// destroy a previous run's output
	data, err := writeParquet(table)
	if err != nil {
		return "", err
	}

	var part string
	switch r.opts.WriteMode {
	case "append":
		part = fmt.Sprintf("part-%s.parquet", time.Now().UTC().Format("20060102150405"))
	default:
		existing, err := r.refined.List(prefix)
		if err != nil {
			return "", fmt.Errorf("list refined %s: %w", prefix, err)
		}
		if len(existing) > 0 {
			var keys []string
			for _, obj := range existing {
				keys = append(keys, obj.Key)
			}
			if err := r.refined.Delete(keys); err != nil {
				return "", fmt.Errorf("clear refined %s: %w", prefix, err)
			}
		}
		part = "part-00000.parquet"
	}

	key := prefix + part

	if _, err := r.refined.Upload(key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload refined %s: %w", key, err)
	}

	return key, nil
}

func joinPrefix(prefix, dataset string) string {
	if prefix == "" {
		return dataset
	}
	return prefix + "/" + dataset
}
