package render

import (
	"encoding/json"
	"io"

	"prismaflow/domain/review"
)

// Document is the nested report record serialized to JSON. Numbers stay
// numbers and the kappa is null when undefined.
type Document struct {
	MethodologyOverview Overview             `json:"methodology_overview"`
	Identification      Identification       `json:"identification"`
	Screening           Screening            `json:"screening"`
	Eligibility         Eligibility          `json:"eligibility"`
	Inclusion           Inclusion            `json:"inclusion"`
	ReasonStats         []review.ReasonStats `json:"exclusion_reason_stats"`
}

type Overview struct {
	ReviewTitle   string `json:"review_title"`
	TotalExcluded int    `json:"total_excluded"`
}

type Identification struct {
	InitialRecords    int      `json:"initial_records"`
	DatabasesSearched []string `json:"databases_searched"`
}

type Screening struct {
	TitleAbstractPhase PhaseSection `json:"title_abstract_phase"`
	InterRater         InterRater   `json:"inter_rater_reliability"`
}

type Eligibility struct {
	FullTextAssessment PhaseSection `json:"full_text_assessment"`
	InclusionCriteria  []string     `json:"inclusion_criteria"`
	ExclusionCriteria  []string     `json:"exclusion_criteria"`
}

type Inclusion struct {
	FinalSynthesis int `json:"final_synthesis"`
}

// PhaseSection reports one screening pass with its exclusion breakdown
type PhaseSection struct {
	RecordsAssessed    int                      `json:"records_assessed"`
	RecordsExcluded    int                      `json:"records_excluded"`
	ExclusionBreakdown []review.ExclusionReason `json:"exclusion_breakdown"`
	RecordsRemaining   int                      `json:"records_remaining"`
}

// InterRater wraps the agreement metric so kappa serializes as null
// when the statistic is undefined.
type InterRater struct {
	CohensKappa *float64               `json:"cohens_kappa"`
	Metric      review.AgreementMetric `json:"detail"`
}

// BuildDocument assembles the nested report from a flow result
func BuildDocument(result review.FlowResult) Document {
	screening, _ := result.PhaseByName(review.PhaseScreening)
	eligibility, _ := result.PhaseByName(review.PhaseEligibility)
	included, _ := result.PhaseByName(review.PhaseIncluded)

	return Document{
		MethodologyOverview: Overview{
			ReviewTitle:   result.Title,
			TotalExcluded: result.TotalExcluded,
		},
		Identification: Identification{
			InitialRecords:    screening.RecordsIn,
			DatabasesSearched: result.Databases,
		},
		Screening: Screening{
			TitleAbstractPhase: PhaseSection{
				RecordsAssessed:    screening.RecordsIn,
				RecordsExcluded:    screening.Excluded,
				ExclusionBreakdown: result.ExclusionsFor(review.ScreenTitleAbstract),
				RecordsRemaining:   screening.RecordsOut(),
			},
			InterRater: InterRater{
				CohensKappa: result.Agreement.KappaValue(),
				Metric:      result.Agreement,
			},
		},
		Eligibility: Eligibility{
			FullTextAssessment: PhaseSection{
				RecordsAssessed:    eligibility.RecordsIn,
				RecordsExcluded:    eligibility.Excluded,
				ExclusionBreakdown: result.ExclusionsFor(review.ScreenFullText),
				RecordsRemaining:   eligibility.RecordsOut(),
			},
			InclusionCriteria: result.Criteria.Inclusion,
			ExclusionCriteria: result.Criteria.Exclusion,
		},
		Inclusion: Inclusion{
			FinalSynthesis: included.RecordsOut(),
		},
		ReasonStats: result.ReasonStats,
	}
}

// WriteJSON renders the nested report document as indented JSON
func WriteJSON(w io.Writer, result review.FlowResult) error {
	doc := BuildDocument(result)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
