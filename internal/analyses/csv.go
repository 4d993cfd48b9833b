package analyses

import (
	"fmt"
	"strings"
	"time"
)

const notMentioned = "Not mentioned"

// RenderCSV flattens a run into a two-column CSV with a fixed row order so
// exports of different runs line up in a spreadsheet.
func RenderCSV(run AnalysisRun) string {
	var b strings.Builder
	row := func(field, value string) {
		b.WriteString(csvEscape(field))
		b.WriteString(",")
		b.WriteString(csvEscape(value))
		b.WriteString("\r\n")
	}

	names := make([]string, 0, len(run.Documents))
	for _, doc := range run.Documents {
		names = append(names, doc.FileName)
	}

	res := run.Result
	row("Field", "Value")
	row("Run ID", run.ID)
	row("Created At", run.CreatedAt.Format(time.RFC3339))
	row("Documents", strings.Join(names, "; "))
	row("Tone", res.Tone)
	row("Confidence", res.Confidence)
	row("Tone Summary", orNotMentioned(res.ToneSummary))
	row("Revenue Guidance", orNotMentioned(res.ForwardGuidance.RevenueGuidance))
	row("Margin Guidance", orNotMentioned(res.ForwardGuidance.MarginGuidance))
	row("Capex Plans", orNotMentioned(res.ForwardGuidance.CapexPlans))
	row("Demand Outlook", orNotMentioned(res.ForwardGuidance.DemandOutlook))
	row("Capacity Utilization Trends", orNotMentioned(res.CapacityUtilizationTrends))

	writeList := func(field string, items []string) {
		if len(items) == 0 {
			row(field, notMentioned)
			return
		}
		for _, item := range items {
			row(field, item)
		}
	}
	writeList("Key Positives", res.KeyPositives)
	writeList("Key Concerns", res.KeyConcerns)
	writeList("Growth Initiatives", res.GrowthInitiatives)
	writeList("Missing Sections", res.MissingSections)

	for _, q := range res.EvidenceQuotes {
		row("Evidence", fmt.Sprintf("%s (Source: %s)", q.Quote, q.Section))
	}

	return b.String()
}

// CSVFileName returns the download name for a run's export.
func CSVFileName(runID string) string {
	return "option-b-" + runID + ".csv"
}

func orNotMentioned(v *string) string {
	if v == nil {
		return notMentioned
	}
	return *v
}

// csvEscape wraps a value in double quotes when it contains a comma, quote,
// or line break, doubling any embedded quotes.
func csvEscape(v string) string {
	if !strings.ContainsAny(v, ",\"\n\r") {
		return v
	}
	return "\"" + strings.ReplaceAll(v, "\"", "\"\"") + "\""
}
