package drive

import (
	"io"
)

// FileRecord is one discovered remote file. Records are rebuilt on
// every listing and never persisted; the identifier is opaque and
// stable across renames.
type FileRecord struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
	Size         int64
}

// Source is the capability surface the batch driver needs from the
// remote file store: a full listing and byte-streamed retrieval.
type Source interface {
	ListFiles() ([]FileRecord, error)
	Fetch(fileID string, sink io.Writer) (int64, error)
}
