package refine

import (
	"fmt"
	"regexp"
	"strings"
)

// Lineage column names. These are appended after the original
// columns and are exempt from missing-value standardization.
const (
	SourceFileCol = "_source_file"
	IngestedAtCol = "_ingested_at_utc"
)

// Table is one dataset's combined tabular content. Every cell is
// textual; a nil cell is a true missing value.
type Table struct {
	Cols []string
	Rows [][]*string
}

var (
	separatorRun  = regexp.MustCompile(`[ \t\-/]+`)
	invalidChars  = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeCol canonicalizes one column name: lowercase, runs of
// whitespace/hyphen/slash collapse to a single underscore, anything
// outside [a-z0-9_] is stripped, repeated underscores collapse, and
// leading/trailing underscores drop. An empty result substitutes a
// default name.
func NormalizeCol(col string) string {
	c := strings.ToLower(strings.TrimSpace(col))
	c = separatorRun.ReplaceAllString(c, "_")
	c = invalidChars.ReplaceAllString(c, "")
	c = underscoreRun.ReplaceAllString(c, "_")
	c = strings.Trim(c, "_")
	if c == "" {
		return "col"
	}
	return c
}

// Uniqueify resolves name collisions left by normalization: repeats
// get an incrementing numeric suffix, in original column order, so
// two occurrences of "state" become "state" and "state_1".
func Uniqueify(cols []string) []string {
	seen := make(map[string]int, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		n := seen[c]
		seen[c] = n + 1
		if n == 0 {
			out = append(out, c)
			continue
		}
		out = append(out, fmt.Sprintf("%s_%d", c, n))
	}
	return out
}

// NormalizeHeader applies NormalizeCol to every column and then
// de-duplicates the results.
func (t *Table) NormalizeHeader() {
	cols := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		cols[i] = NormalizeCol(c)
	}
	t.Cols = Uniqueify(cols)
}

// AppendLineage attaches the two provenance columns: the originating
// file per row and a single run-wide ingestion timestamp.
func (t *Table) AppendLineage(sources []string, ingestedAt string) error {
	if len(sources) != len(t.Rows) {
		return fmt.Errorf("lineage mismatch: %d sources for %d rows", len(sources), len(t.Rows))
	}

	t.Cols = append(t.Cols, SourceFileCol, IngestedAtCol)
	for i := range t.Rows {
		src := sources[i]
		at := ingestedAt
		t.Rows[i] = append(t.Rows[i], &src, &at)
	}

	return nil
}

// tokens that stand in for a missing value in the source extracts
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
	".":    {},
	"nan":  {},
}

// StandardizeMissing rewrites every cell whose trimmed, lowercased
// content is a known missing-value token to a true missing value.
// The lineage columns are left untouched.
func (t *Table) StandardizeMissing() {
	for ci, col := range t.Cols {
		if col == SourceFileCol || col == IngestedAtCol {
			continue
		}
		for _, row := range t.Rows {
			cell := row[ci]
			if cell == nil {
				continue
			}
			probe := strings.ToLower(strings.TrimSpace(*cell))
			if _, ok := missingTokens[probe]; ok {
				row[ci] = nil
			}
		}
	}
}

// Dedup drops fully identical rows, all columns compared including
// lineage, and reports how many were removed. Keeping lineage in the
// comparison means duplicates are file-content-wise, not cross-file.
func (t *Table) Dedup() int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0

	for _, row := range t.Rows {
		var b strings.Builder
		for _, cell := range row {
			if cell == nil {
				b.WriteString("\x00-")
			} else {
				b.WriteString("\x00+")
				b.WriteString(*cell)
			}
		}
		key := b.String()

		if _, ok := seen[key]; ok {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	t.Rows = kept
	return removed
}
