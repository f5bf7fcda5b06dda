package mcp

import (
	"fmt"
	"strings"

	"github.com/llmscope/llmscope/pkg/models"
)

// formatModels formats model configs as a text table.
func formatModels(configs []models.ModelConfig) string {
	if len(configs) == 0 {
		return "No models registered."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-38s %-20s %-10s %-16s %-20s\n",
		"ID", "Name", "Provider", "Version", "Created")
	b.WriteString(strings.Repeat("-", 108) + "\n")
	for _, m := range configs {
		fmt.Fprintf(&b, "%-38s %-20s %-10s %-16s %-20s\n",
			m.ID, m.Name, m.Provider, m.Version,
			m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

// formatAudits formats audit runs as a text table.
func formatAudits(runs []models.AuditRecord) string {
	if len(runs) == 0 {
		return "No audit runs found for this model."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-38s %-10s %-28s %6s %6s %6s %6s\n",
		"Run ID", "Status", "Suites", "Tests", "Pass", "Fail", "Err")
	b.WriteString(strings.Repeat("-", 106) + "\n")
	for _, r := range runs {
		var total, passed, failed, errs int
		if r.Summary != nil {
			total = r.Summary.TotalTests
			passed = r.Summary.Passed
			failed = r.Summary.Failed
			errs = r.Summary.Errors
		}
		fmt.Fprintf(&b, "%-38s %-10s %-28s %6d %6d %6d %6d\n",
			r.ID, r.Status, strings.Join(r.Suites, ","), total, passed, failed, errs)
	}
	return b.String()
}

// formatAuditDetail formats a single audit run with its per-suite breakdown.
func formatAuditDetail(rec *models.AuditRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", rec.ID)
	fmt.Fprintf(&b, "Model:   %s\n", rec.ModelID)
	fmt.Fprintf(&b, "Status:  %s\n", rec.Status)
	fmt.Fprintf(&b, "Suites:  %s\n", strings.Join(rec.Suites, ", "))
	fmt.Fprintf(&b, "Started: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	if rec.CompletedAt != nil {
		fmt.Fprintf(&b, "Ended:   %s\n", rec.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if rec.Error != "" {
		fmt.Fprintf(&b, "Error:   %s\n", rec.Error)
	}
	if rec.Summary != nil {
		fmt.Fprintf(&b, "\nSummary: %d tests, %d passed, %d failed, %d errors, mean latency %.0f ms\n",
			rec.Summary.TotalTests, rec.Summary.Passed, rec.Summary.Failed,
			rec.Summary.Errors, rec.Summary.MeanLatencyMs)
	}
	for _, suite := range rec.Suites {
		results := rec.Results[suite]
		if len(results) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", suite)
		for _, r := range results {
			fmt.Fprintf(&b, "  %s\n", describeResult(r))
		}
	}
	return b.String()
}

// describeResult renders one result as a single indented line. The suite
// tag decides which fields are worth showing.
func describeResult(r models.SuiteResult) string {
	label := r.PromptID
	if label == "" {
		label = r.TestName
	}
	switch {
	case r.Errored():
		return fmt.Sprintf("%-24s error: %s", label, r.Metadata["error"])
	case r.Risk != "":
		detail := "no anomalies"
		if len(r.Anomalies) > 0 {
			detail = strings.Join(r.Anomalies, "; ")
		}
		return fmt.Sprintf("%-24s risk=%-6s %s", label, r.Risk, detail)
	case r.Neutrality != nil:
		return fmt.Sprintf("%-24s neutrality=%.2f latency=%dms", label, *r.Neutrality, r.LatencyMs)
	default:
		return fmt.Sprintf("%-24s refused=%-5v latency=%dms", label, r.Refused, r.LatencyMs)
	}
}

// formatComparison formats a stored comparison with its differences table.
func formatComparison(rec *models.ComparisonRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparison %s\n", rec.ID)
	fmt.Fprintf(&b, "A: %s   B: %s\n", rec.ModelAName, rec.ModelBName)
	fmt.Fprintf(&b, "Suites: %s\n\n", rec.SuiteLabel)
	if len(rec.Differences) == 0 {
		b.WriteString("No differences recorded.\n")
	} else {
		fmt.Fprintf(&b, "%-14s %-20s %12s %12s %10s %-8s\n",
			"Category", "Metric", "A", "B", "Delta", "Signif")
		b.WriteString(strings.Repeat("-", 82) + "\n")
		for _, d := range rec.Differences {
			fmt.Fprintf(&b, "%-14s %-20s %12v %12v %10.3f %-8s\n",
				d.Category, d.Metric, d.ValueA, d.ValueB, d.Delta, d.Significance)
		}
	}
	fmt.Fprintf(&b, "\n%d differences, %d significant, A better on %d, B better on %d\n",
		rec.Summary.TotalDifferences, rec.Summary.Significant,
		rec.Summary.ModelABetter, rec.Summary.ModelBBetter)
	return b.String()
}

// formatComparisons formats comparisons as a text table.
func formatComparisons(recs []models.ComparisonRecord) string {
	if len(recs) == 0 {
		return "No comparisons found for this model."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-38s %-18s %-18s %6s %6s %-20s\n",
		"ID", "Model A", "Model B", "Diffs", "Signif", "Created")
	b.WriteString(strings.Repeat("-", 112) + "\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "%-38s %-18s %-18s %6d %6d %-20s\n",
			r.ID, r.ModelAName, r.ModelBName,
			r.Summary.TotalDifferences, r.Summary.Significant,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
