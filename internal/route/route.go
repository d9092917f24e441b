package route

import (
	"fmt"
	"io"
	"regexp"

	yaml "gopkg.in/yaml.v3"
)

// Unmapped is the reserved dataset identifier returned when no rule
// matches a file name. Files routed here are still transferred, but
// flagged in the batch summary.
const Unmapped = "_unmapped"

// Rule pairs a file name pattern with the dataset it routes to.
type Rule struct {
	Pattern *regexp.Regexp
	Dataset string
}

// Rules is an ordered list of routing rules. Order is significant:
// overlapping patterns are resolved by precedence, not specificity.
type Rules []Rule

// Classify returns the dataset identifier of the first rule whose
// pattern matches the full file name. Matching is case-insensitive.
// An empty rule list classifies everything as Unmapped.
func (rules Rules) Classify(fileName string) string {
	for _, rule := range rules {
		if rule.Pattern.MatchString(fileName) {
			return rule.Dataset
		}
	}
	return Unmapped
}

// LoadRules reads an ordered rule list from a yaml document of
// {pattern, dataset} pairs. The list order in the file is preserved.
func LoadRules(r io.Reader) (Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	type rawRule struct {
		Pattern string
		Dataset string
	}
	var raw []rawRule

	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}

	var rules Rules
	for _, rr := range raw {
		if rr.Pattern == "" || rr.Dataset == "" {
			return nil, fmt.Errorf("rule needs both pattern and dataset: %+v", rr)
		}
		re, err := regexp.Compile("(?i)" + rr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern for dataset %s: %w", rr.Dataset, err)
		}
		rules = append(rules, Rule{Pattern: re, Dataset: rr.Dataset})
	}

	return rules, nil
}

func mustRule(pattern, dataset string) Rule {
	return Rule{
		Pattern: regexp.MustCompile("(?i)" + pattern),
		Dataset: dataset,
	}
}

// DefaultRules returns the standard rule set covering the 21 CMS
// nursing home datasets.
func DefaultRules() Rules {
	return Rules{
		// SNF VBP
		mustRule(`^FY_\d{4}_SNF_VBP_Aggregate_Performance\.csv$`, "snf_vbp_aggregate"),
		mustRule(`^FY_\d{4}_SNF_VBP_Facility_Performance\.csv$`, "snf_vbp_facility"),

		// NH datasets
		mustRule(`^NH_CitationDescriptions_.*\.csv$`, "nh_citation_descriptions"),
		mustRule(`^NH_CovidVaxAverages_.*\.csv$`, "nh_covid_vax_averages"),
		mustRule(`^NH_CovidVaxProvider_.*\.csv$`, "nh_covid_vax_provider"),
		mustRule(`^NH_DataCollectionIntervals_.*\.csv$`, "nh_data_collection_intervals"),
		mustRule(`^NH_FireSafetyCitations_.*\.csv$`, "nh_fire_safety_citations"),
		mustRule(`^NH_HealthCitations_.*\.csv$`, "nh_health_citations"),
		mustRule(`^NH_HlthInspecCutpointsState_.*\.csv$`, "nh_health_inspection_cutpoints_state"),
		mustRule(`^NH_Ownership_.*\.csv$`, "nh_ownership"),
		mustRule(`^NH_Penalties_.*\.csv$`, "nh_penalties"),
		mustRule(`^NH_ProviderInfo_.*\.csv$`, "nh_provider_info"),
		mustRule(`^NH_QualityMsr_Claims_.*\.csv$`, "nh_quality_measure_claims"),
		mustRule(`^NH_QualityMsr_MDS_.*\.csv$`, "nh_quality_measure_mds"),
		mustRule(`^NH_StateUSAverages_.*\.csv$`, "nh_state_us_averages"),
		mustRule(`^NH_SurveyDates_.*\.csv$`, "nh_survey_dates"),
		mustRule(`^NH_SurveySummary_.*\.csv$`, "nh_survey_summary"),

		// PBJ staffing
		mustRule(`^PBJ_Daily_Nurse_Staffing_.*\.csv$`, "pbj_daily_nurse_staffing"),

		// SNF QRP
		mustRule(`^Skilled_Nursing_Facility_Quality_Reporting_Program_National_Data_.*\.csv$`, "snf_qrp_national"),
		mustRule(`^Skilled_Nursing_Facility_Quality_Reporting_Program_Provider_Data_.*\.csv$`, "snf_qrp_provider"),

		// Swing Bed
		mustRule(`^Swing_Bed_SNF_data_.*\.csv$`, "swing_bed_snf"),
	}
}

// DefaultDatasets returns the dataset identifiers the refine stage
// processes when no explicit list is configured. The order mirrors
// DefaultRules.
func DefaultDatasets() []string {
	return []string{
		"snf_vbp_aggregate",
		"snf_vbp_facility",
		"nh_citation_descriptions",
		"nh_covid_vax_averages",
		"nh_covid_vax_provider",
		"nh_data_collection_intervals",
		"nh_fire_safety_citations",
		"nh_health_citations",
		"nh_health_inspection_cutpoints_state",
		"nh_ownership",
		"nh_penalties",
		"nh_provider_info",
		"nh_quality_measure_claims",
		"nh_quality_measure_mds",
		"nh_state_us_averages",
		"nh_survey_dates",
		"nh_survey_summary",
		"pbj_daily_nurse_staffing",
		"snf_qrp_national",
		"snf_qrp_provider",
		"swing_bed_snf",
	}
}
