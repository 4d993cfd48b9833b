package analyses

import "strings"

// Hard caps on list fields. Anything beyond is truncated in order.
const (
	maxListItems       = 6
	maxEvidenceQuotes  = 8
	maxMissingSections = 12
	minQuoteChars      = 10
)

// Sentinel quote used when the model supplied no usable evidence. Clients can
// always rely on evidence_quotes being non-empty.
var sentinelQuote = EvidenceQuote{Quote: "No direct quote extracted", Section: "N/A"}

var validTones = map[string]bool{
	ToneOptimistic:  true,
	ToneCautious:    true,
	ToneDefensive:   true,
	ToneNeutral:     true,
	TonePessimistic: true,
}

var validConfidence = map[string]bool{
	ConfidenceHigh:   true,
	ConfidenceMedium: true,
	ConfidenceLow:    true,
}

// NormalizeResult coerces an arbitrary decoded JSON object into a fully
// shaped Result. Pure: same input map, same output. Normalizing an already
// normalized result is a no-op.
func NormalizeResult(decoded map[string]any) Result {
	res := Result{
		Tone:                      enumOrDefault(decoded["tone"], validTones, ToneNeutral),
		ToneSummary:               nullableString(decoded["tone_summary"]),
		Confidence:                enumOrDefault(decoded["confidence"], validConfidence, ConfidenceLow),
		KeyPositives:              stringList(decoded["key_positives"], maxListItems),
		KeyConcerns:               stringList(decoded["key_concerns"], maxListItems),
		GrowthInitiatives:         stringList(decoded["growth_initiatives"], maxListItems),
		CapacityUtilizationTrends: nullableString(decoded["capacity_utilization_trends"]),
		EvidenceQuotes:            evidenceQuotes(decoded["evidence_quotes"]),
		MissingSections:           stringList(decoded["missing_sections"], maxMissingSections),
	}

	if fg, ok := decoded["forward_guidance"].(map[string]any); ok {
		res.ForwardGuidance = ForwardGuidance{
			RevenueGuidance: nullableString(fg["revenue_guidance"]),
			MarginGuidance:  nullableString(fg["margin_guidance"]),
			CapexPlans:      nullableString(fg["capex_plans"]),
			DemandOutlook:   nullableString(fg["demand_outlook"]),
		}
	}

	return res
}

// isUnderfilled reports whether a result is thin enough to warrant a retry:
// at least two of the three insight lists empty and no guidance field set.
func isUnderfilled(res Result) bool {
	empty := 0
	for _, list := range [][]string{res.KeyPositives, res.KeyConcerns, res.GrowthInitiatives} {
		if len(list) == 0 {
			empty++
		}
	}
	if empty < 2 {
		return false
	}
	fg := res.ForwardGuidance
	return fg.RevenueGuidance == nil && fg.MarginGuidance == nil &&
		fg.CapexPlans == nil && fg.DemandOutlook == nil
}

func enumOrDefault(v any, valid map[string]bool, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if valid[s] {
		return s
	}
	return fallback
}

// nullableString maps absent, empty, "null", and "not mentioned" values to
// nil so the wire contract carries a real JSON null instead of filler text.
func nullableString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "not mentioned") {
		return nil
	}
	return &s
}

func stringList(v any, limit int) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func evidenceQuotes(v any) []EvidenceQuote {
	items, _ := v.([]any)
	out := make([]EvidenceQuote, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		quote := strings.TrimSpace(stringOrEmpty(entry["quote"]))
		if len([]rune(quote)) <= minQuoteChars {
			continue
		}
		section := strings.TrimSpace(stringOrEmpty(entry["section"]))
		if section == "" {
			section = "N/A"
		}
		out = append(out, EvidenceQuote{Quote: quote, Section: section})
		if len(out) == maxEvidenceQuotes {
			break
		}
	}
	if len(out) == 0 {
		return []EvidenceQuote{sentinelQuote}
	}
	return out
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}
