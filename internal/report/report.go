// Package report renders run summaries as Markdown and HTML for the CLI and
// the API.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goconcept/app"
)

// Markdown renders a run summary as a Markdown document
func Markdown(s *app.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Learning Run %s\n\n", s.Record.ID)
	fmt.Fprintf(&b, "- **Strategy**: %s\n", s.Record.Strategy)
	fmt.Fprintf(&b, "- **Metric**: %s\n", s.Record.Metric)
	fmt.Fprintf(&b, "- **Outcome**: %s\n", s.Record.Outcome)
	fmt.Fprintf(&b, "- **Tested concepts**: %d\n", s.Record.TestedConcepts)
	fmt.Fprintf(&b, "- **Runtime**: %d ms\n", s.Record.RuntimeMs)
	fmt.Fprintf(&b, "- **Fingerprint**: `%s`\n\n", s.Record.Fingerprint)

	b.WriteString("## Hypotheses\n\n")
	b.WriteString("| Rank | Concept | Quality | Length | TP | FP | FN | Retrieved |\n")
	b.WriteString("|-----:|---------|--------:|-------:|---:|---:|---:|----------:|\n")
	for _, h := range s.Hypotheses {
		fmt.Fprintf(&b, "| %d | `%s` | %.4f | %d | %d | %d | %d | %d |\n",
			h.Rank, h.Rendered, h.Quality, h.Length, h.TruePos, h.FalsePos, h.FalseNeg, h.NumRetrieved)
	}

	if len(s.Stats.GenerationStats) > 0 {
		b.WriteString("\n## Generations\n\n")
		b.WriteString("| Gen | Best | Mean | Median | StdDev | Unique |\n")
		b.WriteString("|----:|-----:|-----:|-------:|-------:|-------:|\n")
		for _, g := range s.Stats.GenerationStats {
			fmt.Fprintf(&b, "| %d | %.4f | %.4f | %.4f | %.4f | %d |\n",
				g.Generation, g.BestFitness, g.MeanFitness, g.MedianFitness, g.StdDevFitness, g.UniqueConcepts)
		}
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone HTML fragment
func HTML(s *app.RunSummary) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(s)), p, renderer)
}
