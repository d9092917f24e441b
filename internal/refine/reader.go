package refine

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/studio1767/s3ingest/internal/s3io"
)

// rawReader combines every object under one dataset's raw location
// into a single table. The first object establishes the header; the
// following objects are aligned positionally, with ragged rows padded
// or truncated to the header width.
type rawReader struct {
	client    s3io.Client
	header    bool
	delimiter rune
}

func (rr *rawReader) load(prefix string) (*Table, []string, error) {
	objects, err := rr.client.List(prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	if len(objects) == 0 {
		return nil, nil, &ErrNoRawData{
			location: fmt.Sprintf("s3://%s/%s", rr.client.Bucket(), prefix),
			reason:   "no objects",
		}
	}

	table := &Table{}
	var sources []string

	for _, obj := range objects {
		source := fmt.Sprintf("s3://%s/%s", rr.client.Bucket(), obj.Key)

		err := rr.appendObject(table, &sources, obj.Key, source)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", source, err)
		}
	}

	if len(table.Cols) == 0 {
		return nil, nil, &ErrNoRawData{
			location: fmt.Sprintf("s3://%s/%s", rr.client.Bucket(), prefix),
			reason:   "no columns",
		}
	}

	return table, sources, nil
}

func (rr *rawReader) appendObject(table *Table, sources *[]string, key, source string) error {
	// stream the object through the csv reader rather than buffering
	// the whole body
	pr, pw := io.Pipe()
	go func() {
		_, err := rr.client.Download(key, pw)
		pw.CloseWithError(err)
	}()
	defer pr.Close()

	cr := csv.NewReader(pr)
	cr.Comma = rr.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if first {
			first = false
			if len(table.Cols) == 0 {
				// first object establishes the combined header
				table.Cols = headerFor(record, rr.header)
				if rr.header {
					continue
				}
			} else if rr.header {
				// later objects repeat their own header row
				continue
			}
		}

		row := make([]*string, len(table.Cols))
		for i := range row {
			if i < len(record) {
				cell := record[i]
				row[i] = &cell
			}
		}

		table.Rows = append(table.Rows, row)
		*sources = append(*sources, source)
	}

	return nil
}

// headerFor returns the column names for a dataset: the header row
// itself, or positional names when the extracts carry no header.
func headerFor(record []string, header bool) []string {
	cols := make([]string, len(record))
	for i := range record {
		if header {
			cols[i] = record[i]
		} else {
			cols[i] = fmt.Sprintf("_c%d", i)
		}
	}
	return cols
}
