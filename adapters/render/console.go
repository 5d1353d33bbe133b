package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"prismaflow/domain/review"
)

// PrintConsole writes the summary, exclusion and agreement tables to the
// terminal for the interactive menu's display option.
func PrintConsole(w io.Writer, result review.FlowResult) error {
	heading := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w, heading.Sprint("PRISMA Flow Summary"))
	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"Phase", "Records", "Excluded", "Cumulative Exclusion"}); err != nil {
		return err
	}
	for _, p := range result.Phases {
		row := []string{p.Label, strconv.Itoa(p.RecordsOut()), strconv.Itoa(p.Excluded), strconv.Itoa(p.CumulativeExcluded)}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w, heading.Sprint("Exclusion Breakdown"))
	exclTable := tablewriter.NewWriter(w)
	if err := exclTable.Append([]string{"Phase", "Reason", "Count", "% of Initial"}); err != nil {
		return err
	}
	for _, phase := range []review.ScreeningPhase{review.ScreenTitleAbstract, review.ScreenFullText} {
		for _, e := range review.SortedExclusions(result.ExclusionsFor(phase)) {
			row := []string{e.Phase.Label(), e.Reason, strconv.Itoa(e.Count), trimFloat(e.PercentageOfInitial)}
			if err := exclTable.Append(row); err != nil {
				return err
			}
		}
	}
	if err := exclTable.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w, heading.Sprint("Inter-rater Agreement"))
	m := result.Agreement
	kappa := "n/a"
	if m.Defined {
		kappa = fmt.Sprintf("%.3f", m.Kappa)
	}
	agreeTable := tablewriter.NewWriter(w)
	rows := [][]string{
		{"Metric", "Value"},
		{"Cohen's kappa", kappa},
		{"Interpretation", m.Interpretation},
		{"Percent agreement", fmt.Sprintf("%.1f%%", m.PercentAgreement)},
		{"Disagreement rate", fmt.Sprintf("%.1f%%", m.DisagreementRate)},
		{"Records assessed", strconv.Itoa(m.TotalAssessed)},
	}
	for _, row := range rows {
		if err := agreeTable.Append(row); err != nil {
			return err
		}
	}
	return agreeTable.Render()
}
