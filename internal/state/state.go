package state

import (
	"context"
	"time"
)

// Entry records the last successful transfer of one remote file. An
// entry exists if and only if a transfer for the file identifier has
// completed at least once: the coordinator writes it strictly after
// the destination upload succeeds, never speculatively.
type Entry struct {
	FileID       string `dynamodbav:"file_id"`
	FileName     string `dynamodbav:"file_name"`
	ModifiedTime string `dynamodbav:"modifiedTime"`
	Bucket       string `dynamodbav:"s3_bucket"`
	Key          string `dynamodbav:"s3_key"`
	Dataset      string `dynamodbav:"dataset_folder"`
	ProcessedAt  string `dynamodbav:"last_processed_at"`
}

// Store is the per-file key-value state store. Get returns nil with
// no error when the file identifier has never been committed. A
// failed Put must surface to the caller: state is never advanced on
// a failed write.
type Store interface {
	Get(ctx context.Context, fileID string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
}

// Timestamp renders a time in the canonical stored form. All stored
// timestamps use a fixed UTC offset so that ordered string comparison
// agrees with time ordering.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
