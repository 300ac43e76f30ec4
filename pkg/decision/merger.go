package decision

import (
	"sort"

	"github.com/pcfixlab/diagrouter/pkg/classification"
)

const (
	// maxAlternatives caps every alternatives list.
	maxAlternatives = 5
	// relatedDiscount scales a related label's confidence relative to the
	// primary. Related suggestions must never outrank the primary.
	relatedDiscount = 0.8
)

// mergeAlternatives builds a well-formed alternatives list: the primary is
// pinned at index 0, related labels join at a discount off the primary's
// confidence, extra candidates keep their own scores, duplicates resolve to
// the first (highest priority) occurrence, and the result is capped. Entries
// after the primary are ordered by descending confidence with a name
// tie-break.
func mergeAlternatives(primary classification.Alternative, related []string, extra []classification.Alternative) []classification.Alternative {
	seen := map[string]struct{}{primary.Label: {}}
	merged := []classification.Alternative{primary}

	var rest []classification.Alternative
	for _, label := range related {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		rest = append(rest, classification.Alternative{
			Label:      label,
			Confidence: primary.Confidence * relatedDiscount,
		})
	}
	for _, alt := range extra {
		if _, ok := seen[alt.Label]; ok {
			continue
		}
		seen[alt.Label] = struct{}{}
		rest = append(rest, alt)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Confidence != rest[j].Confidence {
			return rest[i].Confidence > rest[j].Confidence
		}
		return rest[i].Label < rest[j].Label
	})

	merged = append(merged, rest...)
	if len(merged) > maxAlternatives {
		merged = merged[:maxAlternatives]
	}
	return merged
}

// topAlternatives ranks a distribution and keeps the k best entries. Zero
// probabilities are kept: a uniform degenerate distribution still yields a
// ranked list.
func topAlternatives(dist classification.Distribution, k int) []classification.Alternative {
	if len(dist.Labels) == 0 || len(dist.Labels) != len(dist.Probs) {
		return nil
	}
	alts := make([]classification.Alternative, len(dist.Labels))
	for i, label := range dist.Labels {
		alts[i] = classification.Alternative{Label: label, Confidence: dist.Probs[i]}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		if alts[i].Confidence != alts[j].Confidence {
			return alts[i].Confidence > alts[j].Confidence
		}
		return alts[i].Label < alts[j].Label
	})
	if len(alts) > k {
		alts = alts[:k]
	}
	return alts
}
