package render

import (
	"fmt"
	"io"
	"strings"

	"prismaflow/domain/review"
)

const boxWidth = 56

// WriteFlowchart renders the PRISMA 2020 box/arrow diagram: one box per
// phase showing records in and excluded, arrows between phases, the
// exclusion reasons branching off each screening box, and a Cohen's
// kappa calculation appendix.
func WriteFlowchart(w io.Writer, result review.FlowResult) error {
	var b strings.Builder

	b.WriteString("PRISMA 2020 FLOW DIAGRAM - SYSTEMATIC REVIEW STUDY SELECTION\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, phase := range result.Phases {
		writeBox(&b, phase)

		switch phase.Phase {
		case review.PhaseScreening:
			writeReasonBranch(&b, "Records excluded", result.ExclusionsFor(review.ScreenTitleAbstract))
		case review.PhaseEligibility:
			writeReasonBranch(&b, "Full-text articles excluded", result.ExclusionsFor(review.ScreenFullText))
		}

		if i < len(result.Phases)-1 {
			writeArrow(&b)
		}
	}

	b.WriteString("\n")
	writeKappaDetails(&b, result.Agreement)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBox(b *strings.Builder, phase review.PhaseRecord) {
	border := "+" + strings.Repeat("-", boxWidth-2) + "+"
	b.WriteString(border + "\n")
	writeBoxLine(b, strings.ToUpper(string(phase.Phase)))
	writeBoxLine(b, phase.Label)
	writeBoxLine(b, fmt.Sprintf("Records: n = %d", phase.RecordsIn))
	if phase.Excluded > 0 {
		writeBoxLine(b, fmt.Sprintf("Excluded: n = %d (cumulative %d)", phase.Excluded, phase.CumulativeExcluded))
	}
	b.WriteString(border + "\n")
}

func writeBoxLine(b *strings.Builder, text string) {
	inner := boxWidth - 4
	if len(text) > inner {
		text = text[:inner]
	}
	b.WriteString("| " + text + strings.Repeat(" ", inner-len(text)) + " |\n")
}

func writeArrow(b *strings.Builder) {
	pad := strings.Repeat(" ", boxWidth/2-1)
	b.WriteString(pad + "|\n")
	b.WriteString(pad + "v\n")
}

func writeReasonBranch(b *strings.Builder, title string, reasons []review.ExclusionReason) {
	if len(reasons) == 0 {
		return
	}
	pad := strings.Repeat(" ", boxWidth/2-1)
	b.WriteString(pad + "|\n")
	b.WriteString(pad + fmt.Sprintf("|--> %s:\n", title))
	for i, r := range reasons {
		connector := "|--"
		if i == len(reasons)-1 {
			connector = "`--"
		}
		b.WriteString(pad + fmt.Sprintf("|      %s %s (n = %d, %s%% of initial)\n",
			connector, r.Reason, r.Count, trimFloat(r.PercentageOfInitial)))
	}
}

func writeKappaDetails(b *strings.Builder, m review.AgreementMetric) {
	b.WriteString("COHEN'S KAPPA CALCULATION DETAILS\n")
	b.WriteString(strings.Repeat("=", 33) + "\n\n")

	t := m.Tally
	b.WriteString("Confusion Matrix (Inter-rater Agreement):\n")
	b.WriteString("                    Reviewer 2\n")
	b.WriteString("                 Include  Exclude  Total\n")
	fmt.Fprintf(b, "Reviewer 1 Include   %3d      %3d    %3d\n",
		t.BothInclude, t.R1IncludeR2Exclude, t.BothInclude+t.R1IncludeR2Exclude)
	fmt.Fprintf(b, "           Exclude   %3d      %3d    %3d\n",
		t.R1ExcludeR2Include, t.BothExclude, t.R1ExcludeR2Include+t.BothExclude)
	fmt.Fprintf(b, "           Total     %3d      %3d    %3d\n\n",
		t.BothInclude+t.R1ExcludeR2Include, t.R1IncludeR2Exclude+t.BothExclude, t.Total())

	fmt.Fprintf(b, "Observed agreement (Po): %.3f\n", m.ObservedAgreement)
	fmt.Fprintf(b, "Expected agreement (Pe): %.3f\n", m.ExpectedAgreement)

	if m.Defined {
		fmt.Fprintf(b, "Cohen's kappa: k = (Po - Pe) / (1 - Pe) = %.3f\n", m.Kappa)
		if m.StdError > 0 {
			fmt.Fprintf(b, "95%% CI: [%.3f, %.3f], SE = %.3f, p = %.3f\n", m.CI95Low, m.CI95High, m.StdError, m.PValue)
		} else {
			b.WriteString("95% CI: n/a (zero standard error)\n")
		}
	} else {
		b.WriteString("Cohen's kappa: n/a (expected agreement equals 1)\n")
	}

	fmt.Fprintf(b, "Interpretation: %s\n", m.Interpretation)
	fmt.Fprintf(b, "Percentage agreement: %.1f%%\n", m.PercentAgreement)
	fmt.Fprintf(b, "Disagreement rate: %.1f%%\n", m.DisagreementRate)
	if m.Defined {
		meets := "No"
		if m.MeetsThreshold {
			meets = "Yes"
		}
		fmt.Fprintf(b, "Meets threshold (>= %.2f): %s (%s confidence)\n", review.KappaThreshold, meets, m.ConfidenceLevel)
	}

	b.WriteString("\nLandis & Koch (1977) Interpretation Scale:\n")
	b.WriteString("k < 0.00: Poor agreement\n")
	b.WriteString("k 0.00-0.20: Slight agreement\n")
	b.WriteString("k 0.21-0.40: Fair agreement\n")
	b.WriteString("k 0.41-0.60: Moderate agreement\n")
	b.WriteString("k 0.61-0.80: Substantial agreement\n")
	b.WriteString("k 0.81-1.00: Almost perfect agreement\n")
}

// trimFloat formats a float without trailing zeros (2.16, 1.3, 20.56)
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
