package analyses

import "strings"

const analysisInstruction = `You are a financial analyst reviewing earnings call transcripts and investor communications.
Analyze the provided material and respond with a single JSON object only. No markdown, no commentary.

The JSON object must have exactly these fields:
- "tone": one of "optimistic", "cautious", "defensive", "neutral", "pessimistic"
- "tone_summary": one or two sentences describing management's tone, or null
- "confidence": one of "high", "medium", "low" reflecting how well the material supports your analysis
- "key_positives": array of short strings, the strongest positive signals (up to 6)
- "key_concerns": array of short strings, the main risks or concerns raised (up to 6)
- "growth_initiatives": array of short strings, announced growth plans or investments (up to 6)
- "forward_guidance": object with "revenue_guidance", "margin_guidance", "capex_plans", "demand_outlook", each a short string or null when not discussed
- "capacity_utilization_trends": short string describing utilization trends, or null
- "evidence_quotes": array of objects with "quote" (verbatim sentence from the material) and "section" (where it appeared, e.g. "Q&A", "Prepared Remarks")
- "missing_sections": array of strings naming topics an analyst would expect but the material does not cover

Ground every claim in the material. Do not invent figures. Use null for anything not discussed.`

const lowSignalInstruction = `The attached documents are scanned or image-based; readable text could not be extracted ahead of time.
Read the attached files directly and base the analysis on their contents.`

const strictRetryInstruction = `Your previous answer was nearly empty. Re-read the material carefully and fill in every field you can support with evidence.
Only leave a field null or an array empty when the material truly does not address it.`

// BuildPrompt assembles the full text part sent to the model. combined holds
// either the concatenated transcript text or, in attachment mode, the bare
// document names.
func BuildPrompt(combined string, lowSignal, strict bool) string {
	var b strings.Builder
	b.WriteString(analysisInstruction)
	if lowSignal {
		b.WriteString("\n\n")
		b.WriteString(lowSignalInstruction)
	}
	if strict {
		b.WriteString("\n\n")
		b.WriteString(strictRetryInstruction)
	}
	b.WriteString("\n\n--- MATERIAL ---\n\n")
	b.WriteString(combined)
	return b.String()
}
