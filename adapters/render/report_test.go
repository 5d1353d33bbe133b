package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdownReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownReport(&buf, defaultFlow(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# PRISMA Study Selection Summary Report"))
	assert.Contains(t, out, "| Initial Database Search | 462 | 0 | 0 |")
	assert.Contains(t, out, "| Final Inclusion | 88 | 0 | 374 |")
	assert.Contains(t, out, "Cohen's kappa: **0.876**")
	assert.Contains(t, out, "- PubMed")

	// Breakdown table lists dominant reasons first within each phase
	other := strings.Index(out, "| Title/Abstract | Other Reasons | 5 |")
	small := strings.Index(out, "| Title/Abstract | Small Sample Sizes | 4 |")
	require.NotEqual(t, -1, other)
	require.NotEqual(t, -1, small)
	assert.Less(t, other, small)
}

func TestWriteHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTMLReport(&buf, defaultFlow(t)))
	out := buf.String()

	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "PRISMA Study Selection Summary Report")
	assert.Contains(t, out, "<table>")
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintConsole(&buf, defaultFlow(t)))
	out := buf.String()

	assert.Contains(t, out, "PRISMA Flow Summary")
	assert.Contains(t, out, "Title/Abstract Screening")
	assert.Contains(t, out, "0.876")
}
