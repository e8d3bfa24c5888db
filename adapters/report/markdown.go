package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"kenrich/domain/enrichment"
	"kenrich/internal/errors"
)

// BuildMarkdown renders a run summary and its significant results as a
// Markdown document.
func BuildMarkdown(run *enrichment.Run, rows []DisplayRow) string {
	var b strings.Builder

	title := run.Name
	if title == "" {
		title = "Key Event enrichment analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Source: `%s`\n", run.SourceFile)
	fmt.Fprintf(&b, "- DEGs after filtering: %d (padj < %g, |log2FC| > %g)\n",
		run.DEGCount, run.Params.PadjCutoff, run.Params.Log2FCCutoff)
	fmt.Fprintf(&b, "- Background universe: %d genes\n", run.UniverseSize)
	fmt.Fprintf(&b, "- Groups tested: %d\n", run.TestedGroups)
	fmt.Fprintf(&b, "- Significant at FDR < %g: %d\n\n", run.Params.FDRThreshold, len(rows))

	if len(rows) == 0 {
		b.WriteString("No significantly enriched Key Events were found.\n")
		return b.String()
	}

	b.WriteString("| " + strings.Join(DisplayHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(DisplayHeaders)) + "\n")
	for _, row := range rows {
		cells := row.Cells()
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// RenderHTML converts a Markdown report into a standalone HTML document.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

// WriteMarkdown writes the Markdown report to path.
func WriteMarkdown(path string, md string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// WriteHTML renders the Markdown report and writes the HTML to path.
func WriteHTML(path string, md string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}
	if err := os.WriteFile(path, RenderHTML(md), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
