package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismaflow/domain/review"
)

func defaultFlow(t *testing.T) review.FlowResult {
	t.Helper()
	flow, err := review.BuildFlow(review.DefaultConfig())
	require.NoError(t, err)
	return flow
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, defaultFlow(t)))

	want := strings.Join([]string{
		"PRISMA_Phase,Records_Count,Excluded_Count,Cumulative_Exclusion",
		"Initial Database Search,462,0,0",
		"Title/Abstract Screening,402,60,60",
		"Full-text Assessment,88,314,374",
		"Final Inclusion,88,0,374",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteExclusionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExclusionsCSV(&buf, defaultFlow(t)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "Phase,Exclusion_Reason,Count,Percentage_of_Initial", lines[0])

	// 9 title/abstract reasons + 5 full-text reasons
	assert.Len(t, lines, 15)
	assert.Equal(t, "Title/Abstract,Duplicate Methodologies,10,2.16", lines[1])
	assert.Equal(t, "Full-text,Not Cardiomyocyte Focused,95,20.56", lines[10])
	assert.Contains(t, buf.String(), "Title/Abstract,Non Cardiac Focus,6,1.3\n")
}

func TestCSV_Idempotent(t *testing.T) {
	flow := defaultFlow(t)

	var a, b bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&a, flow))
	require.NoError(t, WriteSummaryCSV(&b, flow))
	assert.Equal(t, a.Bytes(), b.Bytes(), "summary CSV must be byte-identical across renders")

	a.Reset()
	b.Reset()
	require.NoError(t, WriteExclusionsCSV(&a, flow))
	require.NoError(t, WriteExclusionsCSV(&b, flow))
	assert.Equal(t, a.Bytes(), b.Bytes(), "exclusions CSV must be byte-identical across renders")
}
