package usecase

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/visualmatch/backend/internal/domain"
)

// maxDegradedSummaryLen bounds the summary snippet kept when the model
// output could not be parsed at all.
const maxDegradedSummaryLen = 600

// degradedSummaryFallback is used when the model returned nothing usable
const degradedSummaryFallback = "Unable to analyze image."

var trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

// AdaptAnalysis turns a vision provider result into a canonical Analysis.
// Processing tiers, in order of preference:
//
//  1. The provider already decoded a structured analysis: use it directly.
//  2. The raw text embeds a JSON object, possibly fenced or loosely
//     formatted: strip fences, take the outermost brace span, parse
//     strictly, and on failure repair (single quotes, trailing commas)
//     and parse again.
//  3. Nothing parses: degrade to a minimal analysis carrying the text as
//     summary. Malformed model output never fails the request.
func AdaptAnalysis(result *domain.VisionResult) domain.Analysis {
	if result == nil {
		return normalizeAnalysis(domain.Analysis{})
	}

	if result.Structured != nil {
		return normalizeAnalysis(*result.Structured)
	}

	text := strings.TrimSpace(result.RawText)

	if analysis, ok := parseAnalysisText(text); ok {
		return normalizeAnalysis(analysis)
	}

	log.Printf("[ADAPT] degraded analysis: no parseable JSON in %d bytes of model output", len(text))
	return normalizeAnalysis(domain.Analysis{Summary: summarySnippet(text)})
}

// parseAnalysisText attempts the strict parse and then the tolerant repair
// pass over the outermost JSON object span of the text.
func parseAnalysisText(text string) (domain.Analysis, bool) {
	candidate := braceSpan(stripCodeFences(text))
	if candidate == "" {
		return domain.Analysis{}, false
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(candidate), &analysis); err == nil {
		return analysis, true
	}

	repaired := repairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), &analysis); err == nil {
		return analysis, true
	}

	return domain.Analysis{}, false
}

// stripCodeFences removes markdown fence lines (```json ... ```) wrapping
// the text, leaving the body untouched.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// braceSpan extracts the first top-level {...} span: first '{' matched to
// the last '}'. Returns "" when no such span exists.
func braceSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// repairJSON applies the tolerant repair pass: single-quoted string
// literals become double-quoted and trailing commas before closing
// brackets are removed. Deliberately minimal; anything it cannot fix
// degrades at the next tier.
func repairJSON(text string) string {
	return trailingCommaRegex.ReplaceAllString(normalizeQuotes(text), "$1")
}

// normalizeQuotes rewrites single-quoted string literals as double-quoted
// ones, escaping any inner double quotes. Quotes inside double-quoted
// strings are left alone.
func normalizeQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inDouble := false
	inSingle := false
	escaped := false

	for _, r := range text {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && (inDouble || inSingle):
			b.WriteRune(r)
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteRune(r)
		case r == '"' && inSingle:
			b.WriteString(`\"`)
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteRune('"')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// normalizeAnalysis fills required fields so downstream code never sees
// nil slices or an empty category.
func normalizeAnalysis(analysis domain.Analysis) domain.Analysis {
	analysis.Summary = strings.TrimSpace(analysis.Summary)
	analysis.Category = strings.TrimSpace(analysis.Category)
	if analysis.Category == "" {
		analysis.Category = domain.CategoryUnknown
	}

	if analysis.Colors == nil {
		analysis.Colors = []string{}
	}
	if analysis.Materials == nil {
		analysis.Materials = []string{}
	}
	if analysis.Style == nil {
		analysis.Style = []string{}
	}
	if analysis.Objects == nil {
		analysis.Objects = []string{}
	}
	if analysis.SuggestedTags == nil {
		analysis.SuggestedTags = []string{}
	}

	return analysis
}

// summarySnippet bounds unparseable model output to a summary-sized chunk
func summarySnippet(text string) string {
	if text == "" {
		return degradedSummaryFallback
	}
	runes := []rune(text)
	if len(runes) > maxDegradedSummaryLen {
		return string(runes[:maxDegradedSummaryLen])
	}
	return text
}

// buildQueryText concatenates every analysis field into the single string
// whose token set represents the query image. Field order does not affect
// the resulting set.
func buildQueryText(analysis domain.Analysis) string {
	parts := []string{
		analysis.Summary,
		analysis.Category,
		strings.Join(analysis.Colors, " "),
		strings.Join(analysis.Materials, " "),
		strings.Join(analysis.Style, " "),
		strings.Join(analysis.Objects, " "),
		strings.Join(analysis.SuggestedTags, " "),
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.TrimSpace(strings.Join(nonEmpty, " "))
}
