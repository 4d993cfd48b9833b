package analyses

import "time"

// Tone and confidence enumerations. The normalizer guarantees every Result
// stays inside these sets.
const (
	ToneOptimistic  = "optimistic"
	ToneCautious    = "cautious"
	ToneDefensive   = "defensive"
	ToneNeutral     = "neutral"
	TonePessimistic = "pessimistic"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Result is the normalized analysis output. It is always fully shaped: every
// field conforms to its declared domain regardless of what the model produced.
type Result struct {
	Tone                      string          `json:"tone"`
	ToneSummary               *string         `json:"tone_summary"`
	Confidence                string          `json:"confidence"`
	KeyPositives              []string        `json:"key_positives"`
	KeyConcerns               []string        `json:"key_concerns"`
	GrowthInitiatives         []string        `json:"growth_initiatives"`
	ForwardGuidance           ForwardGuidance `json:"forward_guidance"`
	CapacityUtilizationTrends *string         `json:"capacity_utilization_trends"`
	EvidenceQuotes            []EvidenceQuote `json:"evidence_quotes"`
	MissingSections           []string        `json:"missing_sections"`
}

// ForwardGuidance groups the nullable outlook narratives.
type ForwardGuidance struct {
	RevenueGuidance *string `json:"revenue_guidance"`
	MarginGuidance  *string `json:"margin_guidance"`
	CapexPlans      *string `json:"capex_plans"`
	DemandOutlook   *string `json:"demand_outlook"`
}

// EvidenceQuote ties an extracted quote to its transcript section.
type EvidenceQuote struct {
	Quote   string `json:"quote"`
	Section string `json:"section"`
}

// RunDocument records one source document of a run.
type RunDocument struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

// AnalysisRun is one completed invocation of the analysis pipeline.
// Immutable once created.
type AnalysisRun struct {
	ID        string        `json:"runId"`
	CreatedAt time.Time     `json:"createdAt"`
	Documents []RunDocument `json:"documents"`
	Result    Result        `json:"result"`
}
