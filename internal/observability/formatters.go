// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/fit-engine/internal/engine"
	"github.com/jonathan/fit-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items with a "... and N more" tail
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintDocument outputs the skills and experience extracted from a parsed document.
func (p *Printer) PrintDocument(doc *types.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("Tokens:   %d\n", len(doc.Tokens)))

	if exp := doc.Experience; exp != nil {
		if doc.Kind == types.KindJob {
			if exp.MinYearsRequired != nil {
				sb.WriteString(fmt.Sprintf("Min years: %.1f\n", *exp.MinYearsRequired))
			}
		} else {
			sb.WriteString(fmt.Sprintf("Years:    %.1f (%s)\n", exp.TotalYears, exp.Seniority()))
		}
	}
	sb.WriteString("\n")

	if len(doc.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(doc.Skills)))
		items := make([]string, 0, len(doc.Skills))
		for _, s := range doc.Skills {
			item := s.Name
			if s.Approximate() {
				item = fmt.Sprintf("%s ~%.2f %s", s.Name, s.Confidence, s.Method)
			}
			items = append(items, item)
		}
		writeList(&sb, items, maxItemsToShow)
	} else {
		sb.WriteString("No skills found\n")
	}

	title := "PARSED RESUME"
	if doc.Kind == types.KindJob {
		title = "PARSED JOB"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFitResult outputs the fit score, band and score components.
func (p *Printer) PrintFitResult(fit *types.FitResult) {
	if fit == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %.4f  [%s]\n", fit.FitScore, fit.FitBand))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Similarity:  %.4f × %.2f\n", fit.Components.Similarity, fit.Audit.SimilarityWeight))
	sb.WriteString(fmt.Sprintf("Overlap:     %.4f × %.2f\n", fit.Components.Overlap, fit.Audit.OverlapWeight))
	sb.WriteString(fmt.Sprintf("Experience:  %.4f × %.2f\n", fit.Components.ExperienceRatio, fit.Audit.ExperienceWeight))
	if fit.Audit.DictionaryVersion != "" {
		sb.WriteString(fmt.Sprintf("\nDictionary:  %s\n", fit.Audit.DictionaryVersion))
	}

	p.printBox("FIT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGapReport outputs matched, partial and missing skills, must-haves first.
func (p *Printer) PrintGapReport(report *types.GapReport) {
	if report == nil {
		return
	}
	if report.RequiredCount() == 0 {
		p.printBox("SKILL GAP", "No required skills")
		return
	}

	var sb strings.Builder

	if len(report.Matched) > 0 {
		sb.WriteString(fmt.Sprintf("Matched (%d):\n", len(report.Matched)))
		writeList(&sb, report.Matched, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(report.Partial) > 0 {
		sb.WriteString(fmt.Sprintf("Partial (%d):\n", len(report.Partial)))
		items := make([]string, 0, len(report.Partial))
		for _, ps := range report.Partial {
			items = append(items, fmt.Sprintf("%s (%.2f)", ps.Name, ps.Confidence))
		}
		writeList(&sb, items, maxItemsToShow)
		sb.WriteString("\n")
	}

	if must := report.MustHaveMissing(); len(must) > 0 {
		sb.WriteString(fmt.Sprintf("Missing must-haves (%d):\n", len(must)))
		writeList(&sb, missingNames(must), maxItemsToShow)
		sb.WriteString("\n")
	}

	if nice := report.NiceToHaveMissing(); len(nice) > 0 {
		sb.WriteString(fmt.Sprintf("Missing nice-to-haves (%d):\n", len(nice)))
		writeList(&sb, missingNames(nice), 3)
	}

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

func missingNames(missing []types.MissingSkill) []string {
	names := make([]string, 0, len(missing))
	for _, m := range missing {
		names = append(names, m.Name)
	}
	return names
}

// PrintBatch outputs one line per job in ranked order; failed pairs show their error.
func (p *Printer) PrintBatch(results []engine.PairResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs scored: %d\n\n", len(results)))

	for i, r := range results {
		id := r.JobID
		if id == "" {
			id = fmt.Sprintf("job #%d", r.Index+1)
		}
		if r.Err != nil {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", id))
			sb.WriteString(fmt.Sprintf("  %s\n", r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, id))
		sb.WriteString(fmt.Sprintf("    %.4f [%s], missing %d\n",
			r.Match.Result.FitScore, r.Match.Result.FitBand, len(r.Match.Result.MissingSkills)))
	}

	p.printBox("BATCH RANKING", strings.TrimSuffix(sb.String(), "\n"))
}
