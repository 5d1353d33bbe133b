package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"prismaflow/domain/review"
)

// Summary CSV column headers, kept stable for downstream tooling
var summaryHeader = []string{"PRISMA_Phase", "Records_Count", "Excluded_Count", "Cumulative_Exclusion"}

// Exclusions CSV column headers
var exclusionsHeader = []string{"Phase", "Exclusion_Reason", "Count", "Percentage_of_Initial"}

// WriteSummaryCSV renders one row per flow phase. Records_Count is the
// records remaining after the phase, so the four default rows read
// 462, 402, 88, 88.
func WriteSummaryCSV(w io.Writer, result review.FlowResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, phase := range result.Phases {
		row := []string{
			phase.Label,
			strconv.Itoa(phase.RecordsOut()),
			strconv.Itoa(phase.Excluded),
			strconv.Itoa(phase.CumulativeExcluded),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExclusionsCSV renders one row per exclusion reason with its share
// of the initial record count.
func WriteExclusionsCSV(w io.Writer, result review.FlowResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(exclusionsHeader); err != nil {
		return err
	}
	for _, e := range result.Exclusions {
		row := []string{
			e.Phase.Label(),
			e.Reason,
			strconv.Itoa(e.Count),
			strconv.FormatFloat(e.PercentageOfInitial, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
