package refine_test

import (
	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3ingest/internal/refine"
)

func TestNormalizeCol(t *testing.T) {
	cases := map[string]string{
		"Facility  Name/#":       "facility_name",
		"Provider Name":          "provider_name",
		"CMS Certification No.":  "cms_certification_no",
		"Cycle 1 - Total Score":  "cycle_1_total_score",
		"  padded  ":             "padded",
		"Rate/100":               "rate_100",
		"___":                    "col",
		"%%%":                    "col",
		"":                       "col",
		"already_normal":         "already_normal",
		"Tab\tSeparated\tWords":  "tab_separated_words",
		"UPPER_CASE":             "upper_case",
		"double__underscore":     "double_underscore",
		"_leading_and_trailing_": "leading_and_trailing",
	}

	for in, want := range cases {
		require.Equal(t, want, refine.NormalizeCol(in), "%q", in)
	}
}

func TestUniqueify(t *testing.T) {
	in := []string{"state", "county", "state", "state", "county"}
	out := refine.Uniqueify(in)

	require.Equal(t, []string{"state", "county", "state_1", "state_2", "county_1"}, out)
}

func TestNormalizeHeaderPreservesOrder(t *testing.T) {
	table := &refine.Table{
		Cols: []string{"State", "Facility  Name/#", "state"},
	}
	table.NormalizeHeader()

	require.Equal(t, []string{"state", "facility_name", "state_1"}, table.Cols)
}

func ptr(s string) *string { return &s }

func TestStandardizeMissing(t *testing.T) {
	table := &refine.Table{
		Cols: []string{"name", "score", refine.SourceFileCol, refine.IngestedAtCol},
		Rows: [][]*string{
			{ptr("N/A"), ptr("0"), ptr("na"), ptr("null")},
			{ptr(" "), ptr("NULL"), ptr("s3://b/k"), ptr("2024-10-05T00:00:00Z")},
			{ptr("ok"), nil, ptr("s3://b/k"), ptr("2024-10-05T00:00:00Z")},
			{ptr("nAn"), ptr("."), ptr("s3://b/k"), ptr("2024-10-05T00:00:00Z")},
		},
	}

	table.StandardizeMissing()

	// data columns: tokens become true missing values
	require.Nil(t, table.Rows[0][0]) // N/A
	require.Nil(t, table.Rows[1][0]) // blank after trim
	require.Nil(t, table.Rows[1][1]) // NULL, any case
	require.Nil(t, table.Rows[3][0]) // nAn
	require.Nil(t, table.Rows[3][1]) // .

	// a literal zero is data, not a missing marker
	require.Equal(t, "0", *table.Rows[0][1])
	require.Equal(t, "ok", *table.Rows[2][0])
	require.Nil(t, table.Rows[2][1])

	// lineage columns are exempt even when they hold token-like text
	require.Equal(t, "na", *table.Rows[0][2])
	require.Equal(t, "null", *table.Rows[0][3])
}

func TestDedup(t *testing.T) {
	table := &refine.Table{
		Cols: []string{"a", "b", refine.SourceFileCol},
		Rows: [][]*string{
			{ptr("1"), ptr("x"), ptr("s3://b/one.csv")},
			{ptr("1"), ptr("x"), ptr("s3://b/one.csv")},
			// same data from a different file is not a duplicate
			{ptr("1"), ptr("x"), ptr("s3://b/two.csv")},
			{ptr("2"), nil, ptr("s3://b/one.csv")},
			{ptr("2"), nil, ptr("s3://b/one.csv")},
			// nil and empty string are distinct cells
			{ptr("2"), ptr(""), ptr("s3://b/one.csv")},
		},
	}

	removed := table.Dedup()

	require.Equal(t, 2, removed)
	require.Len(t, table.Rows, 4)
}

func TestAppendLineage(t *testing.T) {
	table := &refine.Table{
		Cols: []string{"a"},
		Rows: [][]*string{
			{ptr("1")},
			{ptr("2")},
		},
	}

	err := table.AppendLineage([]string{"s3://b/one.csv", "s3://b/two.csv"}, "2024-10-05T00:00:00Z")
	require.NoError(t, err)

	require.Equal(t, []string{"a", refine.SourceFileCol, refine.IngestedAtCol}, table.Cols)
	require.Equal(t, "s3://b/one.csv", *table.Rows[0][1])
	require.Equal(t, "s3://b/two.csv", *table.Rows[1][1])
	require.Equal(t, "2024-10-05T00:00:00Z", *table.Rows[0][2])
	require.Equal(t, "2024-10-05T00:00:00Z", *table.Rows[1][2])
}

func TestAppendLineageMismatch(t *testing.T) {
	table := &refine.Table{
		Cols: []string{"a"},
		Rows: [][]*string{{ptr("1")}},
	}

	err := table.AppendLineage(nil, "2024-10-05T00:00:00Z")
	require.Error(t, err)
}
