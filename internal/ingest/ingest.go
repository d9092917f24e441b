package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studio1767/s3ingest/internal/drive"
	"github.com/studio1767/s3ingest/internal/route"
	"github.com/studio1767/s3ingest/internal/s3io"
	"github.com/studio1767/s3ingest/internal/state"
)

// Summary reports what one batch invocation did.
type Summary struct {
	Listed        int
	Processed     int
	Skipped       int
	Unmapped      int
	BytesUploaded int64
}

// Syncer runs one incremental batch: list remote files, decide per
// file whether a transfer is needed, transfer, and commit state.
// Files are handled strictly sequentially; each state commit must be
// ordered after its own transfer, so there is no intra-batch
// parallelism.
type Syncer struct {
	source  drive.Source
	store   state.Store
	dest    s3io.Client
	rules   route.Rules
	prefix  string
	staging string
}

func NewSyncer(source drive.Source, store state.Store, dest s3io.Client, rules route.Rules, prefix, staging string) *Syncer {
	if staging == "" {
		staging = os.TempDir()
	}
	return &Syncer{
		source:  source,
		store:   store,
		dest:    dest,
		rules:   rules,
		prefix:  strings.Trim(prefix, "/"),
		staging: staging,
	}
}

// DestinationKey computes where a file lands in the destination
// store: <prefix>/<dataset>/<fileName>, with the prefix and its
// separator omitted entirely when the prefix is unset.
func DestinationKey(prefix, dataset, fileName string) string {
	if prefix == "" {
		return fmt.Sprintf("%s/%s", dataset, fileName)
	}
	return fmt.Sprintf("%s/%s/%s", prefix, dataset, fileName)
}

// Run processes every discovered file once. A transfer failure aborts
// the remainder of the batch and surfaces to the caller together with
// the partial summary; re-invoking later converges because committed
// state makes finished files skip.
func (sy *Syncer) Run(ctx context.Context) (*Summary, error) {
	files, err := sy.source.ListFiles()
	if err != nil {
		return &Summary{}, fmt.Errorf("list remote files: %w", err)
	}

	slog.Info("remote listing complete", "files", len(files))

	summary := Summary{}

	for _, rec := range files {
		select {
		case <-ctx.Done():
			return &summary, ctx.Err()
		default:
		}

		summary.Listed++

		// csv-only filter
		if !strings.HasSuffix(strings.ToLower(rec.Name), ".csv") {
			slog.Info("skipping non-csv file", "file", rec.Name, "mime", rec.MimeType)
			continue
		}

		// a record with no modification timestamp is indistinguishable
		// from always-stale, so it bypasses the change detector
		if rec.ModifiedTime == "" {
			slog.Warn("no modification timestamp; processing to be safe", "file", rec.Name)
		} else {
			process, err := state.ShouldProcess(ctx, sy.store, rec.ID, rec.ModifiedTime)
			if err != nil {
				return &summary, fmt.Errorf("change check %s: %w", rec.Name, err)
			}
			if !process {
				slog.Info("skipping unchanged file", "file", rec.Name, "modified", rec.ModifiedTime)
				summary.Skipped++
				continue
			}
		}

		dataset := sy.rules.Classify(rec.Name)
		if dataset == route.Unmapped {
			// unmapped is a warning, not a rejection
			summary.Unmapped++
			slog.Warn("unmapped filename pattern", "file", rec.Name, "dataset", dataset)
		}

		key, nbytes, err := sy.transfer(ctx, rec, dataset)
		if err != nil {
			return &summary, err
		}

		summary.Processed++
		summary.BytesUploaded += nbytes
		slog.Info("transferred", "file", rec.Name, "key", key, "bytes", nbytes)
	}

	return &summary, nil
}

// transfer moves one file: stage its bytes locally, upload to the
// destination, then commit state. The commit is strictly ordered
// after a successful upload; a crash in between leaves the file
// eligible for re-transfer on the next run, which is a safe
// overwrite rather than data loss.
func (sy *Syncer) transfer(ctx context.Context, rec drive.FileRecord, dataset string) (string, int64, error) {
	key := DestinationKey(sy.prefix, dataset, rec.Name)

	// stage under the file id to sidestep awkward display names
	staged := filepath.Join(sy.staging, rec.ID+".csv")

	f, err := os.Create(staged)
	if err != nil {
		return key, 0, fmt.Errorf("create staging %s: %w", staged, err)
	}

	// release the staging artifact on every exit path; failure to
	// remove it is only logged
	defer func() {
		f.Close()
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove staging file", "path", staged, "error", err)
		}
	}()

	if _, err := sy.source.Fetch(rec.ID, f); err != nil {
		return key, 0, fmt.Errorf("download %s: %w", rec.Name, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return key, 0, fmt.Errorf("rewind staging %s: %w", staged, err)
	}

	nbytes, err := sy.dest.Upload(key, f)
	if err != nil {
		return key, nbytes, fmt.Errorf("upload %s: %w", rec.Name, err)
	}

	// commit state only now that the destination write has succeeded
	entry := state.Entry{
		FileID:       rec.ID,
		FileName:     rec.Name,
		ModifiedTime: rec.ModifiedTime,
		Bucket:       sy.dest.Bucket(),
		Key:          key,
		Dataset:      dataset,
		ProcessedAt:  state.Timestamp(time.Now()),
	}
	if err := sy.store.Put(ctx, &entry); err != nil {
		return key, nbytes, fmt.Errorf("commit state %s: %w", rec.Name, err)
	}

	return key, nbytes, nil
}
