package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismaflow/domain/review"
	"prismaflow/internal"
	"prismaflow/internal/config"
)

func testService(t *testing.T) (*ReportService, string) {
	t.Helper()
	dir := t.TempDir()
	appConfig := &config.Config{
		Output: config.OutputConfig{
			Dir:            dir,
			FilePrefix:     "prisma_test",
			TimestampFiles: false,
		},
	}
	return NewReportService(appConfig, internal.NewLogger(internal.LogLevelError)), dir
}

func TestRunDefault_WritesCoreArtifacts(t *testing.T) {
	svc, dir := testService(t)

	result, err := svc.RunDefault()
	require.NoError(t, err)

	// summary CSV, exclusions CSV, JSON, flowchart, manifest
	assert.Len(t, result.Files, 5)
	for _, name := range []string{
		"prisma_test_summary.csv",
		"prisma_test_exclusions.csv",
		"prisma_test.json",
		"prisma_test_flowchart.txt",
		"prisma_test_manifest.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}

	assert.Equal(t, 374, result.Flow.TotalExcluded)
	assert.Len(t, result.Manifest.Artifacts, 4) // the manifest lists every artifact but not itself
}

func TestGenerateAll_WritesEveryFormat(t *testing.T) {
	svc, dir := testService(t)

	result, err := svc.GenerateAll(review.DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.Files, 8)
	for _, name := range []string{
		"prisma_test_report.md",
		"prisma_test_report.html",
		"prisma_test.xlsx",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}
}

func TestRun_InvalidConfigWritesNothing(t *testing.T) {
	svc, dir := testService(t)

	cfg := review.DefaultConfig()
	cfg.FullTextExcluded = 500 // drives the phase chain negative
	cfg.FullTextBreakdown = []review.ReasonCount{{Reason: "not_relevant", Count: 500}}

	_, err := svc.Run(cfg, true)
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed run must produce zero output files")
}

func TestRun_Idempotent(t *testing.T) {
	svcA, dirA := testService(t)
	svcB, dirB := testService(t)

	_, err := svcA.RunDefault()
	require.NoError(t, err)
	_, err = svcB.RunDefault()
	require.NoError(t, err)

	// Manifests carry run IDs and timestamps; every rendered artifact
	// must be byte-identical across runs.
	for _, name := range []string{
		"prisma_test_summary.csv",
		"prisma_test_exclusions.csv",
		"prisma_test.json",
		"prisma_test_flowchart.txt",
	} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), "%s differs between identical runs", name)
	}
}

func TestCompare(t *testing.T) {
	svc, _ := testService(t)

	a := review.DefaultConfig()

	b := review.DefaultConfig()
	b.Title = "Custom Review"
	b.InitialRecords = 325
	b.TitleAbstractExcluded = 45
	b.FullTextExcluded = 195
	b.FinalIncluded = 85
	b.TitleAbstractBreakdown = []review.ReasonCount{{Reason: "not_relevant", Count: 45}}
	b.FullTextBreakdown = []review.ReasonCount{{Reason: "insufficient_methodology", Count: 195}}

	comparison, err := svc.Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 3, comparison.FinalDiff)           // 88 vs 85
	assert.Equal(t, 134, comparison.TotalExcludedDiff) // 374 vs 240

	var buf bytes.Buffer
	comparison.Render(&buf)
	assert.Contains(t, buf.String(), "Difference: 3")
}

func TestRunCustom_MissingFile(t *testing.T) {
	svc, dir := testService(t)

	_, err := svc.RunCustom(filepath.Join(dir, "does_not_exist.json"))
	require.Error(t, err)
}
