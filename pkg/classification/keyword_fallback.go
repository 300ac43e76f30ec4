package classification

import (
	"sort"
	"strings"
)

// fallbackBaseConfidence and fallbackPerMatch shape the keyword heuristic
// score: min(fallbackMaxConfidence, base + matches*perMatch). The ceiling
// keeps the heuristic strictly below every model threshold so it can never
// outrank a real prediction.
const (
	fallbackBaseConfidence = 0.2
	fallbackPerMatch       = 0.1
	fallbackMaxConfidence  = 0.5
)

// fallbackKeywords maps a label to loose indicator words. Unlike the rule
// table this is OR semantics with frequency scoring, not ordered AND
// patterns, so overlap between labels is fine.
var fallbackKeywords = map[string][]string{
	"GPU Cooler Upgrade":   {"gpu", "graphics", "overheat", "overheating", "thermal", "temperature", "hot", "fan", "cooling"},
	"Blue Screen (BSOD)":   {"blue screen", "bsod", "crash", "freeze", "hang", "stopped working"},
	"Windows Boot Failure": {"boot", "startup", "won't start", "not starting", "power on", "turn on", "booting"},
	"SSD Upgrade":          {"ssd", "solid state", "hard drive", "storage", "upgrade ssd"},
	"RAM Upgrade":          {"ram", "memory", "upgrade ram", "add memory", "more ram"},
	"PSU / Power Issue":    {"power", "psu", "power supply", "won't turn on", "no power", "charging", "battery"},
	"WiFi Adapter Upgrade": {"wifi", "wi-fi", "wireless", "internet", "network", "adapter", "connection"},
}

// KeywordFallback scores labels by counting how many of their indicator
// keywords occur in the text. It is the last resort before the default
// label: cheap, total over its keyword table, and deliberately low
// confidence.
type KeywordFallback struct {
	table map[string][]string
}

// NewKeywordFallback returns a fallback classifier over the built-in
// keyword table.
func NewKeywordFallback() *KeywordFallback {
	return &KeywordFallback{table: fallbackKeywords}
}

// Classify returns the best-scoring label and up to three alternatives, or
// nil when no keyword occurs at all. Ties break on label name so the result
// is deterministic.
func (k *KeywordFallback) Classify(text string) []Alternative {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	var scored []Alternative
	for label, keywords := range k.table {
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		confidence := fallbackBaseConfidence + float64(matches)*fallbackPerMatch
		if confidence > fallbackMaxConfidence {
			confidence = fallbackMaxConfidence
		}
		scored = append(scored, Alternative{Label: label, Confidence: confidence})
	}
	if len(scored) == 0 {
		return nil
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Confidence != scored[j].Confidence {
			return scored[i].Confidence > scored[j].Confidence
		}
		return scored[i].Label < scored[j].Label
	})
	if len(scored) > 3 {
		scored = scored[:3]
	}
	return scored
}
