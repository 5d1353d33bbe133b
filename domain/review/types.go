package review

// Phase identifies a PRISMA 2020 flow phase
type Phase string

const (
	PhaseIdentification Phase = "identification"
	PhaseScreening      Phase = "screening"
	PhaseEligibility    Phase = "eligibility"
	PhaseIncluded       Phase = "included"
)

// ScreeningPhase identifies which screening pass an exclusion reason belongs to
type ScreeningPhase string

const (
	ScreenTitleAbstract ScreeningPhase = "title_abstract"
	ScreenFullText      ScreeningPhase = "full_text"
)

// Label returns the human-readable phase name used in exports
func (p ScreeningPhase) Label() string {
	switch p {
	case ScreenTitleAbstract:
		return "Title/Abstract"
	case ScreenFullText:
		return "Full-text"
	}
	return string(p)
}

// PhaseRecord is one step of the record flow chain.
// RecordsIn - Excluded of one phase equals RecordsIn of the next.
type PhaseRecord struct {
	Phase              Phase  `json:"phase"`
	Label              string `json:"label"`
	RecordsIn          int    `json:"records_in"`
	Excluded           int    `json:"excluded"`
	CumulativeExcluded int    `json:"cumulative_excluded"`
}

// RecordsOut returns the records remaining after this phase
func (p PhaseRecord) RecordsOut() int {
	return p.RecordsIn - p.Excluded
}

// ExclusionReason is one exclusion category within a screening phase
type ExclusionReason struct {
	Phase               ScreeningPhase `json:"phase"`
	Reason              string         `json:"reason"`
	Count               int            `json:"count"`
	PercentageOfInitial float64        `json:"percentage_of_initial"`
}

// Criteria holds the static inclusion/exclusion criteria lists
type Criteria struct {
	Inclusion []string `json:"inclusion_criteria"`
	Exclusion []string `json:"exclusion_criteria"`
}

// AgreementTally is the 2x2 reviewer decision table for the screening phase
type AgreementTally struct {
	BothInclude        int `json:"include_include"`
	R1IncludeR2Exclude int `json:"include_exclude"`
	R1ExcludeR2Include int `json:"exclude_include"`
	BothExclude        int `json:"exclude_exclude"`
}

// Total returns the number of jointly screened records
func (t AgreementTally) Total() int {
	return t.BothInclude + t.R1IncludeR2Exclude + t.R1ExcludeR2Include + t.BothExclude
}

// Agreements returns the number of concordant decisions
func (t AgreementTally) Agreements() int {
	return t.BothInclude + t.BothExclude
}

// Disagreements returns the number of discordant decisions
func (t AgreementTally) Disagreements() int {
	return t.R1IncludeR2Exclude + t.R1ExcludeR2Include
}

// AgreementMetric is the derived inter-rater reliability result.
// Kappa is meaningful only when Defined is true; an undefined kappa
// (expected agreement of exactly 1) is reported, never fatal.
type AgreementMetric struct {
	Kappa             float64        `json:"-"`
	Defined           bool           `json:"-"`
	Interpretation    string         `json:"interpretation"`
	ObservedAgreement float64        `json:"observed_agreement"`
	ExpectedAgreement float64        `json:"expected_agreement"`
	PercentAgreement  float64        `json:"percent_agreement"`
	DisagreementRate  float64        `json:"disagreement_rate"`
	StdError          float64        `json:"std_error"`
	CI95Low           float64        `json:"ci_95_low"`
	CI95High          float64        `json:"ci_95_high"`
	PValue            float64        `json:"p_value"`
	TotalAssessed     int            `json:"total_assessed"`
	Tally             AgreementTally `json:"confusion_matrix"`
	MeetsThreshold    bool           `json:"meets_threshold"`
	ConfidenceLevel   string         `json:"confidence_level"`
}

// KappaValue returns the kappa as a JSON-safe pointer, nil when undefined
func (m AgreementMetric) KappaValue() *float64 {
	if !m.Defined {
		return nil
	}
	k := m.Kappa
	return &k
}

// ReasonStats summarizes the distribution of exclusion counts in one phase
type ReasonStats struct {
	Phase  ScreeningPhase `json:"phase"`
	Sum    float64        `json:"sum"`
	Mean   float64        `json:"mean"`
	Median float64        `json:"median"`
	Min    float64        `json:"min"`
	Max    float64        `json:"max"`
}

// FlowResult is the complete calculator output handed to renderers
type FlowResult struct {
	Title         string            `json:"review_title"`
	Phases        []PhaseRecord     `json:"phases"`
	Exclusions    []ExclusionReason `json:"exclusions"`
	Criteria      Criteria          `json:"criteria"`
	Agreement     AgreementMetric   `json:"agreement"`
	ReasonStats   []ReasonStats     `json:"reason_stats"`
	Databases     []string          `json:"databases"`
	TotalExcluded int               `json:"total_excluded"`
}

// PhaseByName returns the record for a phase, if present
func (r FlowResult) PhaseByName(phase Phase) (PhaseRecord, bool) {
	for _, p := range r.Phases {
		if p.Phase == phase {
			return p, true
		}
	}
	return PhaseRecord{}, false
}

// ExclusionsFor returns the exclusion reasons of one screening phase
func (r FlowResult) ExclusionsFor(phase ScreeningPhase) []ExclusionReason {
	var out []ExclusionReason
	for _, e := range r.Exclusions {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out
}
