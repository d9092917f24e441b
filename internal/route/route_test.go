package route_test

import (
	"regexp"
	"strings"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3ingest/internal/route"
)

func TestClassifyStandardRules(t *testing.T) {
	rules := route.DefaultRules()

	cases := map[string]string{
		"NH_Ownership_Oct2024.csv":                  "nh_ownership",
		"nh_ownership_oct2024.csv":                  "nh_ownership",
		"FY_2024_SNF_VBP_Aggregate_Performance.csv": "snf_vbp_aggregate",
		"FY_2024_SNF_VBP_Facility_Performance.csv":  "snf_vbp_facility",
		"NH_ProviderInfo_Oct2024.csv":               "nh_provider_info",
		"PBJ_Daily_Nurse_Staffing_Q2_2024.csv":      "pbj_daily_nurse_staffing",
		"Swing_Bed_SNF_data_Oct2024.csv":            "swing_bed_snf",
		"unknownfile.csv":                           route.Unmapped,
		"NH_Ownership_Oct2024.txt":                  route.Unmapped,
		"prefix_NH_Ownership_Oct2024.csv":           route.Unmapped,
		"Skilled_Nursing_Facility_Quality_Reporting_Program_Provider_Data_Oct2024.csv": "snf_qrp_provider",
	}

	for name, want := range cases {
		require.Equal(t, want, rules.Classify(name), name)
	}
}

func TestClassifyEmptyRules(t *testing.T) {
	var rules route.Rules
	require.Equal(t, route.Unmapped, rules.Classify("NH_Ownership_Oct2024.csv"))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := route.Rules{
		{Pattern: regexp.MustCompile(`(?i)^NH_.*\.csv$`), Dataset: "first"},
		{Pattern: regexp.MustCompile(`(?i)^NH_Ownership_.*\.csv$`), Dataset: "second"},
	}

	// the broader rule comes first, so it wins even though the second
	// rule is more specific
	require.Equal(t, "first", rules.Classify("NH_Ownership_Oct2024.csv"))
}

func TestLoadRulesPreservesOrder(t *testing.T) {
	doc := `
- pattern: "^A_.*\\.csv$"
  dataset: broad
- pattern: "^A_Special_.*\\.csv$"
  dataset: narrow
`
	rules, err := route.LoadRules(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	require.Equal(t, "broad", rules.Classify("A_Special_Oct2024.csv"))
	require.Equal(t, "broad", rules.Classify("a_special_oct2024.csv"))
	require.Equal(t, route.Unmapped, rules.Classify("B_Oct2024.csv"))
}

func TestLoadRulesBadPattern(t *testing.T) {
	doc := `
- pattern: "^A_(.*\\.csv$"
  dataset: broken
`
	_, err := route.LoadRules(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadRulesIncomplete(t *testing.T) {
	doc := `
- pattern: "^A_.*\\.csv$"
`
	_, err := route.LoadRules(strings.NewReader(doc))
	require.Error(t, err)
}

func TestDefaultDatasetsMatchRules(t *testing.T) {
	rules := route.DefaultRules()
	datasets := route.DefaultDatasets()

	require.Len(t, datasets, 21)
	require.Len(t, rules, 21)

	seen := make(map[string]bool)
	for _, rule := range rules {
		seen[rule.Dataset] = true
	}
	for _, dataset := range datasets {
		require.True(t, seen[dataset], dataset)
	}
}
