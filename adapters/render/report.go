package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"prismaflow/domain/review"
)

// WriteMarkdownReport renders the summary report: configuration
// overview, target numbers, criteria, databases and inter-rater
// agreement as a Markdown document.
func WriteMarkdownReport(w io.Writer, result review.FlowResult) error {
	_, err := io.WriteString(w, buildMarkdown(result))
	return err
}

// WriteHTMLReport renders the same summary report as standalone HTML
func WriteHTMLReport(w io.Writer, result review.FlowResult) error {
	md := []byte(buildMarkdown(result))

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: result.Title,
	})

	_, err := w.Write(markdown.ToHTML(md, p, renderer))
	return err
}

func buildMarkdown(result review.FlowResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PRISMA Study Selection Summary Report\n\n")
	fmt.Fprintf(&b, "**Review:** %s\n\n", result.Title)

	b.WriteString("## Flow Summary\n\n")
	b.WriteString("| Phase | Records | Excluded | Cumulative Exclusion |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, p := range result.Phases {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", p.Label, p.RecordsOut(), p.Excluded, p.CumulativeExcluded)
	}
	fmt.Fprintf(&b, "\nTotal records excluded: **%d**\n\n", result.TotalExcluded)

	b.WriteString("## Exclusion Breakdown\n\n")
	b.WriteString("| Phase | Reason | Count | % of Initial |\n")
	b.WriteString("| --- | --- | ---: | ---: |\n")
	for _, phase := range []review.ScreeningPhase{review.ScreenTitleAbstract, review.ScreenFullText} {
		for _, e := range review.SortedExclusions(result.ExclusionsFor(phase)) {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", e.Phase.Label(), e.Reason, e.Count, trimFloat(e.PercentageOfInitial))
		}
	}
	b.WriteString("\n")

	b.WriteString("## Exclusion Reason Distribution\n\n")
	b.WriteString("| Phase | Sum | Mean | Median | Min | Max |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, s := range result.ReasonStats {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Phase.Label(), trimFloat(s.Sum), trimFloat(s.Mean), trimFloat(s.Median), trimFloat(s.Min), trimFloat(s.Max))
	}
	b.WriteString("\n")

	b.WriteString("## Inter-rater Agreement\n\n")
	m := result.Agreement
	if m.Defined {
		fmt.Fprintf(&b, "- Cohen's kappa: **%.3f** (%s)\n", m.Kappa, m.Interpretation)
		if m.StdError > 0 {
			fmt.Fprintf(&b, "- 95%% CI: [%.3f, %.3f], SE %.3f, p %.3f\n", m.CI95Low, m.CI95High, m.StdError, m.PValue)
		}
	} else {
		fmt.Fprintf(&b, "- Cohen's kappa: n/a (%s)\n", m.Interpretation)
	}
	fmt.Fprintf(&b, "- Percentage agreement: %.1f%%\n", m.PercentAgreement)
	fmt.Fprintf(&b, "- Disagreement rate: %.1f%%\n", m.DisagreementRate)
	fmt.Fprintf(&b, "- Records jointly assessed: %d\n\n", m.TotalAssessed)

	b.WriteString("## Inclusion Criteria\n\n")
	for _, c := range result.Criteria.Inclusion {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n## Exclusion Criteria\n\n")
	for _, c := range result.Criteria.Exclusion {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	if len(result.Databases) > 0 {
		b.WriteString("\n## Search Databases\n\n")
		for _, db := range result.Databases {
			fmt.Fprintf(&b, "- %s\n", db)
		}
	}

	return b.String()
}
