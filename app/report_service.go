package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"prismaflow/adapters/render"
	"prismaflow/domain/review"
	"prismaflow/domain/run"
	"prismaflow/internal"
	"prismaflow/internal/config"
	"prismaflow/internal/errors"
)

// Artifact kind names recorded in the run manifest
const (
	KindSummaryCSV    = "summary_csv"
	KindExclusionsCSV = "exclusions_csv"
	KindJSON          = "json"
	KindFlowchart     = "flowchart"
	KindWorkbook      = "xlsx"
	KindReportMD      = "report_md"
	KindReportHTML    = "report_html"
)

// ReportService runs the configuration -> flow -> artifacts pipeline.
// Runs are strictly sequential: a run either fails validation before
// any file is written or writes its complete artifact set.
type ReportService struct {
	appConfig *config.Config
	logger    *internal.Logger
}

// NewReportService creates a report service
func NewReportService(appConfig *config.Config, logger *internal.Logger) *ReportService {
	return &ReportService{appConfig: appConfig, logger: logger}
}

// RunResult reports what a completed run produced
type RunResult struct {
	Flow     review.FlowResult
	Manifest *run.Manifest
	Files    []string
}

// RunDefault executes the built-in methodology configuration
func (s *ReportService) RunDefault() (*RunResult, error) {
	return s.Run(review.DefaultConfig(), false)
}

// RunCustom executes a methodology configuration loaded from a JSON file
func (s *ReportService) RunCustom(path string) (*RunResult, error) {
	cfg, err := review.LoadConfigFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return s.Run(cfg, false)
}

// GenerateAll executes a configuration and writes every artifact format,
// including the workbook and the Markdown/HTML summary report.
func (s *ReportService) GenerateAll(cfg review.Config) (*RunResult, error) {
	return s.Run(cfg, true)
}

// Run validates, computes and renders. All renderable output is built
// in memory before the first file is written, so a failing configuration
// produces zero files.
func (s *ReportService) Run(cfg review.Config, allFormats bool) (*RunResult, error) {
	flow, err := review.BuildFlow(cfg)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	if !flow.Agreement.Defined {
		// Reported, not fatal: artifacts carry a null kappa.
		s.logger.Warn("[%s] Cohen's kappa undefined for this reviewer tally", errors.CodeKappaUndefined)
	}

	type pending struct {
		kind string
		name string
		data []byte
	}
	var files []pending

	buffer := func(kind, suffix string, renderFn func(io.Writer, review.FlowResult) error) error {
		var buf bytes.Buffer
		if err := renderFn(&buf, flow); err != nil {
			return errors.RenderError(fmt.Sprintf("failed to render %s", kind), err)
		}
		s.logger.Debug("rendered %s artifact (%d bytes)", kind, buf.Len())
		files = append(files, pending{kind: kind, name: s.artifactName(suffix), data: buf.Bytes()})
		return nil
	}

	if err := buffer(KindSummaryCSV, "_summary.csv", render.WriteSummaryCSV); err != nil {
		return nil, err
	}
	if err := buffer(KindExclusionsCSV, "_exclusions.csv", render.WriteExclusionsCSV); err != nil {
		return nil, err
	}
	if err := buffer(KindJSON, ".json", render.WriteJSON); err != nil {
		return nil, err
	}
	if err := buffer(KindFlowchart, "_flowchart.txt", render.WriteFlowchart); err != nil {
		return nil, err
	}
	if allFormats {
		if err := buffer(KindReportMD, "_report.md", render.WriteMarkdownReport); err != nil {
			return nil, err
		}
		if err := buffer(KindReportHTML, "_report.html", render.WriteHTMLReport); err != nil {
			return nil, err
		}
	}

	manifest := run.NewManifest(cfg)
	result := &RunResult{Flow: flow, Manifest: manifest}

	if err := os.MkdirAll(s.appConfig.Output.Dir, 0o755); err != nil {
		return nil, errors.IOError("failed to create output directory", err)
	}

	for _, f := range files {
		path := filepath.Join(s.appConfig.Output.Dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			s.logger.Error("write failed for %s artifact: %v", f.kind, err)
			return nil, errors.IOError(fmt.Sprintf("failed to write %s", path), err)
		}
		manifest.Record(f.kind, path)
		result.Files = append(result.Files, path)
		s.logger.Info("wrote %s artifact: %s", f.kind, path)
	}

	if allFormats {
		// excelize writes its own file; it runs after validation like the rest.
		path := filepath.Join(s.appConfig.Output.Dir, s.artifactName(".xlsx"))
		if err := render.WriteWorkbook(path, flow); err != nil {
			return nil, errors.IOError(fmt.Sprintf("failed to write %s", path), err)
		}
		manifest.Record(KindWorkbook, path)
		result.Files = append(result.Files, path)
		s.logger.Info("wrote %s artifact: %s", KindWorkbook, path)
	}

	// The manifest lists every artifact but not itself.
	manifestPath := filepath.Join(s.appConfig.Output.Dir, s.artifactName("_manifest.json"))
	if err := manifest.Write(manifestPath); err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to write %s", manifestPath), err)
	}
	result.Files = append(result.Files, manifestPath)

	s.logger.Info("run %s complete: %d studies included, %d artifacts",
		manifest.RunID.String(), cfg.FinalIncluded, len(result.Files))
	return result, nil
}

// Comparison holds the key metrics of two configurations side by side
type Comparison struct {
	A, B              review.FlowResult
	FinalDiff         int
	TotalExcludedDiff int
}

// Compare builds the flows of two configurations and reports the
// difference in final inclusions and total exclusions. Nothing is
// written to disk.
func (s *ReportService) Compare(a, b review.Config) (*Comparison, error) {
	flowA, err := review.BuildFlow(a)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	flowB, err := review.BuildFlow(b)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	finalA, _ := flowA.PhaseByName(review.PhaseIncluded)
	finalB, _ := flowB.PhaseByName(review.PhaseIncluded)

	return &Comparison{
		A:                 flowA,
		B:                 flowB,
		FinalDiff:         abs(finalA.RecordsOut() - finalB.RecordsOut()),
		TotalExcludedDiff: abs(flowA.TotalExcluded - flowB.TotalExcluded),
	}, nil
}

// Render writes the comparison as text
func (c *Comparison) Render(w io.Writer) {
	finalA, _ := c.A.PhaseByName(review.PhaseIncluded)
	finalB, _ := c.B.PhaseByName(review.PhaseIncluded)

	fmt.Fprintln(w, "Configuration Comparison")
	fmt.Fprintln(w, "------------------------")
	fmt.Fprintf(w, "%s - Final Studies: %d\n", c.A.Title, finalA.RecordsOut())
	fmt.Fprintf(w, "%s - Final Studies: %d\n", c.B.Title, finalB.RecordsOut())
	fmt.Fprintf(w, "Difference: %d\n\n", c.FinalDiff)
	fmt.Fprintf(w, "Total Exclusions: %d vs %d (difference %d)\n",
		c.A.TotalExcluded, c.B.TotalExcluded, c.TotalExcludedDiff)
}

func (s *ReportService) artifactName(suffix string) string {
	name := s.appConfig.Output.FilePrefix
	if s.appConfig.Output.TimestampFiles {
		name += "_" + time.Now().Format("20060102_150405")
	}
	return name + suffix
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
