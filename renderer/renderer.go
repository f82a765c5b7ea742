package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/converter"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// SplitRenderOptions holds configuration for rendering a split.
type SplitRenderOptions struct {
	SkipComparison bool // Do not render the single schedule comparison.
}

// RenderSplit renders an optimal split to a markdown string.
func RenderSplit(res oneshot.SplitResult, opts SplitRenderOptions) string {
	partials := map[string]string{
		"split_title":      "split_title.md",
		"split_allocation": "split_allocation.md",
	}
	// An empty file name results in an empty template.
	if !opts.SkipComparison {
		partials["split_comparison"] = "split_comparison.md"
	} else {
		partials["split_comparison"] = ""
	}
	return renderTemplate("split", "split.md", partials, NewSplit(res))
}

// RenderSchedule renders the bracket table of a schedule. Brackets narrower
// than step are flagged, a zero step flags none.
func RenderSchedule(s oneshot.Schedule, step decimal.Decimal) string {
	partials := map[string]string{
		"schedule_brackets": "schedule_brackets.md",
	}
	return renderTemplate("schedule", "schedule.md", partials, NewSchedule(s, step))
}

// RenderConversion renders the result panel of a conversion. saved are the
// paths where the downloads were written, if any.
func RenderConversion(res *converter.Result, saved []string) string {
	partials := map[string]string{
		"conversion_files": "conversion_files.md",
	}
	return renderTemplate("conversion", "conversion.md", partials, NewConversion(res, saved))
}

// RenderTransactions renders the transactions read from a converted statement.
func RenderTransactions(name string, ts converter.Transactions) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("transactions", "transactions.md", partials, NewTransactions(name, ts))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
