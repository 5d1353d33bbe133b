package review

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Phase labels used in exports, matching the summary table rows
const (
	LabelIdentification = "Initial Database Search"
	LabelScreening      = "Title/Abstract Screening"
	LabelEligibility    = "Full-text Assessment"
	LabelIncluded       = "Final Inclusion"
)

// BuildFlow derives the complete flow result from a validated configuration.
// It is deterministic and pure: same config, same result.
func BuildFlow(cfg Config) (FlowResult, error) {
	if err := cfg.Validate(); err != nil {
		return FlowResult{}, err
	}

	afterTitleAbstract := cfg.InitialRecords - cfg.TitleAbstractExcluded
	totalExcluded := cfg.TitleAbstractExcluded + cfg.FullTextExcluded

	phases := []PhaseRecord{
		{
			Phase:     PhaseIdentification,
			Label:     LabelIdentification,
			RecordsIn: cfg.InitialRecords,
		},
		{
			Phase:              PhaseScreening,
			Label:              LabelScreening,
			RecordsIn:          cfg.InitialRecords,
			Excluded:           cfg.TitleAbstractExcluded,
			CumulativeExcluded: cfg.TitleAbstractExcluded,
		},
		{
			Phase:              PhaseEligibility,
			Label:              LabelEligibility,
			RecordsIn:          afterTitleAbstract,
			Excluded:           cfg.FullTextExcluded,
			CumulativeExcluded: totalExcluded,
		},
		{
			Phase:              PhaseIncluded,
			Label:              LabelIncluded,
			RecordsIn:          cfg.FinalIncluded,
			CumulativeExcluded: totalExcluded,
		},
	}

	exclusions := make([]ExclusionReason, 0, len(cfg.TitleAbstractBreakdown)+len(cfg.FullTextBreakdown))
	exclusions = append(exclusions, buildReasons(ScreenTitleAbstract, cfg.TitleAbstractBreakdown, cfg.InitialRecords)...)
	exclusions = append(exclusions, buildReasons(ScreenFullText, cfg.FullTextBreakdown, cfg.InitialRecords)...)

	agreement := ComputeAgreement(cfg.ReviewerAgreement)

	reasonStats := []ReasonStats{
		summarizeReasons(ScreenTitleAbstract, cfg.TitleAbstractBreakdown),
		summarizeReasons(ScreenFullText, cfg.FullTextBreakdown),
	}

	return FlowResult{
		Title:      cfg.Title,
		Phases:     phases,
		Exclusions: exclusions,
		Criteria: Criteria{
			Inclusion: cfg.InclusionCriteria,
			Exclusion: cfg.ExclusionCriteria,
		},
		Agreement:     agreement,
		ReasonStats:   reasonStats,
		Databases:     cfg.Databases,
		TotalExcluded: totalExcluded,
	}, nil
}

func buildReasons(phase ScreeningPhase, breakdown []ReasonCount, initialRecords int) []ExclusionReason {
	reasons := make([]ExclusionReason, 0, len(breakdown))
	for _, rc := range breakdown {
		reasons = append(reasons, ExclusionReason{
			Phase:               phase,
			Reason:              TitleReason(rc.Reason),
			Count:               rc.Count,
			PercentageOfInitial: PercentOfInitial(rc.Count, initialRecords),
		})
	}
	return reasons
}

// PercentOfInitial computes 100*count/initial rounded half-up to 2 decimals.
// A zero initial count yields 0 rather than dividing by zero.
func PercentOfInitial(count, initialRecords int) float64 {
	if initialRecords == 0 {
		return 0
	}
	pct, err := stats.Round(100*float64(count)/float64(initialRecords), 2)
	if err != nil {
		return 0
	}
	return pct
}

func summarizeReasons(phase ScreeningPhase, breakdown []ReasonCount) ReasonStats {
	data := make(stats.Float64Data, 0, len(breakdown))
	for _, rc := range breakdown {
		data = append(data, float64(rc.Count))
	}
	if len(data) == 0 {
		return ReasonStats{Phase: phase}
	}

	sum, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	mean, _ = stats.Round(mean, 2)
	median, _ = stats.Round(median, 2)

	return ReasonStats{
		Phase:  phase,
		Sum:    sum,
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
	}
}

// SortedExclusions returns a copy of the reasons sorted by count
// descending, ties broken by reason name. Human-facing report tables
// list dominant reasons first; the CSV and JSON exports keep the
// configured order.
func SortedExclusions(reasons []ExclusionReason) []ExclusionReason {
	out := make([]ExclusionReason, len(reasons))
	copy(out, reasons)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

// TitleReason turns a snake_case reason key into its display form,
// e.g. "duplicate_methodologies" -> "Duplicate Methodologies".
func TitleReason(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
