package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"prismaflow/domain/review"
)

// Workbook sheet names
const (
	sheetSummary    = "Summary"
	sheetExclusions = "Exclusions"
	sheetAgreement  = "Agreement"
)

// WriteWorkbook renders the flow result as an XLSX workbook with
// Summary, Exclusions and Agreement sheets. Counts and percentages are
// written as numeric cells.
func WriteWorkbook(path string, result review.FlowResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := writeExclusionsSheet(f, result); err != nil {
		return err
	}
	if err := writeAgreementSheet(f, result.Agreement); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result review.FlowResult) error {
	header := []interface{}{"PRISMA_Phase", "Records_Count", "Excluded_Count", "Cumulative_Exclusion"}
	if err := writeRow(f, sheetSummary, 1, header); err != nil {
		return err
	}
	for i, phase := range result.Phases {
		row := []interface{}{phase.Label, phase.RecordsOut(), phase.Excluded, phase.CumulativeExcluded}
		if err := writeRow(f, sheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeExclusionsSheet(f *excelize.File, result review.FlowResult) error {
	if _, err := f.NewSheet(sheetExclusions); err != nil {
		return err
	}
	header := []interface{}{"Phase", "Exclusion_Reason", "Count", "Percentage_of_Initial"}
	if err := writeRow(f, sheetExclusions, 1, header); err != nil {
		return err
	}
	for i, e := range result.Exclusions {
		row := []interface{}{e.Phase.Label(), e.Reason, e.Count, e.PercentageOfInitial}
		if err := writeRow(f, sheetExclusions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAgreementSheet(f *excelize.File, m review.AgreementMetric) error {
	if _, err := f.NewSheet(sheetAgreement); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total_Assessed", m.TotalAssessed},
		{"Observed_Agreement", m.ObservedAgreement},
		{"Expected_Agreement", m.ExpectedAgreement},
		{"Percent_Agreement", m.PercentAgreement},
		{"Disagreement_Rate", m.DisagreementRate},
		{"Interpretation", m.Interpretation},
		{"Confidence_Level", m.ConfidenceLevel},
	}

	// Kappa row stays textual when the statistic is undefined
	if m.Defined {
		rows = append(rows,
			[]interface{}{"Cohens_Kappa", m.Kappa},
			[]interface{}{"Std_Error", m.StdError},
			[]interface{}{"CI_95_Low", m.CI95Low},
			[]interface{}{"CI_95_High", m.CI95High},
			[]interface{}{"P_Value", m.PValue},
		)
	} else {
		rows = append(rows, []interface{}{"Cohens_Kappa", "n/a"})
	}

	for i, row := range rows {
		if err := writeRow(f, sheetAgreement, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
