package s3io

import (
	"io"
)

// ReadCounter wraps a reader and tracks how many reads and bytes have
// passed through it. Upload uses it to report transferred sizes
// without buffering the stream.
type ReadCounter interface {
	Read(p []byte) (int, error)
	Close() error

	TotalReads() int
	TotalBytes() int64
}

func NewReadCounter(in io.Reader) ReadCounter {
	rc := readCounter{
		in:    in,
		reads: 0,
		bytes: 0,
	}
	return &rc
}

type readCounter struct {
	in    io.Reader
	reads int
	bytes int64
}

func (rc *readCounter) Read(p []byte) (int, error) {
	size, err := rc.in.Read(p)

	rc.reads += 1
	rc.bytes += int64(size)

	return size, err
}

func (rc *readCounter) Close() error {
	rc.in = nil
	return nil
}

func (rc *readCounter) TotalReads() int {
	return rc.reads
}

func (rc *readCounter) TotalBytes() int64 {
	return rc.bytes
}
