package refine

import (
	"bytes"
	"encoding/json"
	"fmt"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetParallelism = 4

// parquetSchema renders the json schema document for a table: every
// column is an optional utf8 byte array, so standardized missing
// values survive as real nulls.
func parquetSchema(cols []string) string {
	fields := make([]map[string]string, 0, len(cols))
	for _, col := range cols {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", col),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

// writeParquet encodes the table as a snappy-compressed parquet file
// and returns its bytes.
func writeParquet(table *Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)

	pw, err := writer.NewJSONWriter(parquetSchema(table.Cols), pfw, parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range table.Rows {
		rec := make(map[string]any, len(table.Cols))
		for i, col := range table.Cols {
			if row[i] == nil {
				rec[col] = nil
			} else {
				rec[col] = *row[i]
			}
		}

		// the json writer only decodes string/[]byte records
		encoded, err := json.Marshal(rec)
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, fmt.Errorf("parquet encode: %w", err)
		}

		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, fmt.Errorf("parquet write: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return nil, fmt.Errorf("parquet finalize: %w", err)
	}
	_ = pfw.Close()

	return buf.Bytes(), nil
}
