package review

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"prismaflow/domain/core"
)

// ReasonCount is one exclusion-reason entry of a screening breakdown.
// Breakdowns are ordered slices rather than maps so that every export is
// deterministic and re-runs are byte-identical.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// Config is the immutable methodology configuration for one run.
// Every numeric value of the methodology is an input here; the
// calculator and renderers hardcode nothing.
type Config struct {
	Title string `json:"review_title"`

	InitialRecords        int `json:"initial_records"`
	TitleAbstractExcluded int `json:"title_abstract_excluded"`
	FullTextExcluded      int `json:"full_text_excluded"`
	FinalIncluded         int `json:"final_included"`

	TitleAbstractBreakdown []ReasonCount `json:"title_abstract_exclusion_breakdown"`
	FullTextBreakdown      []ReasonCount `json:"full_text_exclusion_breakdown"`

	InclusionCriteria []string `json:"inclusion_criteria"`
	ExclusionCriteria []string `json:"exclusion_criteria"`

	Databases []string `json:"search_databases"`

	ReviewerAgreement AgreementTally `json:"reviewer_agreement_counts"`
}

// Validate checks the configuration for internal consistency.
// All failures are configuration errors: fatal, raised before any
// output is produced.
func (c Config) Validate() error {
	if c.InitialRecords < 0 {
		return core.NewValidationError("initial_records", "must be non-negative")
	}
	if c.TitleAbstractExcluded < 0 {
		return core.NewValidationError("title_abstract_excluded", "must be non-negative")
	}
	if c.FullTextExcluded < 0 {
		return core.NewValidationError("full_text_excluded", "must be non-negative")
	}
	if c.FinalIncluded < 0 {
		return core.NewValidationError("final_included", "must be non-negative")
	}

	afterTitleAbstract := c.InitialRecords - c.TitleAbstractExcluded
	if afterTitleAbstract < 0 {
		return fmt.Errorf("%w: title/abstract exclusions (%d) exceed initial records (%d)",
			core.ErrFlowInconsistent, c.TitleAbstractExcluded, c.InitialRecords)
	}
	afterFullText := afterTitleAbstract - c.FullTextExcluded
	if afterFullText < 0 {
		return fmt.Errorf("%w: full-text exclusions (%d) exceed records remaining after screening (%d)",
			core.ErrFlowInconsistent, c.FullTextExcluded, afterTitleAbstract)
	}
	if afterFullText != c.FinalIncluded {
		return fmt.Errorf("%w: initial %d - excluded %d+%d leaves %d, but final_included is %d",
			core.ErrFlowInconsistent, c.InitialRecords, c.TitleAbstractExcluded,
			c.FullTextExcluded, afterFullText, c.FinalIncluded)
	}

	if err := validateBreakdown("title_abstract_exclusion_breakdown", c.TitleAbstractBreakdown, c.TitleAbstractExcluded); err != nil {
		return err
	}
	if err := validateBreakdown("full_text_exclusion_breakdown", c.FullTextBreakdown, c.FullTextExcluded); err != nil {
		return err
	}

	t := c.ReviewerAgreement
	if t.BothInclude < 0 || t.R1IncludeR2Exclude < 0 || t.R1ExcludeR2Include < 0 || t.BothExclude < 0 {
		return core.NewValidationError("reviewer_agreement_counts", "tally cells must be non-negative")
	}
	if t.Total() == 0 {
		return core.ErrEmptyTally
	}

	return nil
}

func validateBreakdown(field string, breakdown []ReasonCount, expectedTotal int) error {
	seen := make(map[string]bool, len(breakdown))
	sum := 0
	for _, rc := range breakdown {
		if rc.Count < 0 {
			return fmt.Errorf("%w: %s: reason %q has negative count %d",
				core.ErrNegativeCount, field, rc.Reason, rc.Count)
		}
		if strings.TrimSpace(rc.Reason) == "" {
			return core.NewValidationError(field, "reason name cannot be empty")
		}
		if seen[rc.Reason] {
			return core.NewValidationError(field, fmt.Sprintf("duplicate reason %q", rc.Reason))
		}
		seen[rc.Reason] = true
		sum += rc.Count
	}
	if sum != expectedTotal {
		return fmt.Errorf("%w: %s sums to %d, phase total is %d",
			core.ErrPhaseMismatch, field, sum, expectedTotal)
	}
	return nil
}

// Hash returns a stable fingerprint of the configuration for run manifests
func (c Config) Hash() core.ConfigHash {
	// Marshal order is struct order, so identical configs hash identically.
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return core.ConfigHash(core.NewHash(data))
}

// LoadConfigFile reads and validates a JSON methodology configuration
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", core.ErrConfigInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig reproduces the published 462-record systematic review.
// These are illustrative methodology constants, kept here as inputs so
// that nothing downstream depends on them.
func DefaultConfig() Config {
	return Config{
		Title:                 "Deep Learning in Spatial Omics for Cardiomyocyte Differentiation",
		InitialRecords:        462,
		TitleAbstractExcluded: 60,
		FullTextExcluded:      314,
		FinalIncluded:         88,
		TitleAbstractBreakdown: []ReasonCount{
			{Reason: "duplicate_methodologies", Count: 10},
			{Reason: "insufficient_deep_learning", Count: 10},
			{Reason: "preliminary_results", Count: 8},
			{Reason: "no_spatial_resolution", Count: 7},
			{Reason: "non_cardiac_focus", Count: 6},
			{Reason: "insufficient_methodology", Count: 6},
			{Reason: "small_sample_sizes", Count: 4},
			{Reason: "theoretical_only", Count: 4},
			{Reason: "other_reasons", Count: 5},
		},
		FullTextBreakdown: []ReasonCount{
			{Reason: "not_cardiomyocyte_focused", Count: 95},
			{Reason: "methodological_overlap_redundancy", Count: 85},
			{Reason: "insufficient_reproducibility", Count: 60},
			{Reason: "bulk_transcriptomics_only", Count: 45},
			{Reason: "no_spatial_integration", Count: 29},
		},
		InclusionCriteria: []string{
			"GNN, RNN or attention-based architectures",
			"spatial omics technologies",
			"cardiomyocyte differentiation or cardiac regeneration focus",
			"peer-reviewed full-text articles",
			"English language",
			"published 2019-2025",
		},
		ExclusionCriteria: []string{
			"bulk transcriptomics without spatial resolution",
			"lack of deep learning components",
			"non-cardiac tissue applications",
			"conference abstracts, letters or editorials",
			"insufficient methodological detail",
			"non-reproducible studies",
		},
		Databases: []string{
			"PubMed", "Web of Science", "Embase", "IEEE Xplore",
			"ACM Digital Library", "Scopus", "arXiv", "bioRxiv", "medRxiv",
		},
		ReviewerAgreement: AgreementTally{
			BothInclude:        75,
			R1IncludeR2Exclude: 8,
			R1ExcludeR2Include: 9,
			BothExclude:        370,
		},
	}
}
