package classification

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
)

// Failure reasons reported by the hierarchical cascade. A total failure
// degrades to "no opinion" with one of these codes; it never reaches the
// caller as an error.
const (
	ReasonModelsNotLoaded           = "models_not_loaded"
	ReasonCategoryPredictionFailed  = "category_prediction_failed"
	ReasonComponentPredictionFailed = "component_prediction_failed"
)

// HierarchicalResult is the outcome of one two-stage prediction.
type HierarchicalResult struct {
	Label              string
	Category           string
	CategoryConfidence float64 // stage-1 confidence on its own
	Confidence         float64 // product of category and component confidence
	Reason             string  // failure code when Label is empty
	Alternatives       []Alternative
	Grouped            map[string][]Alternative
}

// HierarchicalClassifier chains the category model and the component model:
// the category argmax restricts the component distribution, which is then
// renormalized within the winning category.
type HierarchicalClassifier struct {
	category  *ModelStore
	component *ModelStore
	mapping   *CategoryMapping
}

// NewHierarchicalClassifier wires the two model stores to the category
// mapping.
func NewHierarchicalClassifier(category, component *ModelStore, mapping *CategoryMapping) *HierarchicalClassifier {
	return &HierarchicalClassifier{category: category, component: component, mapping: mapping}
}

// Predict runs the two-stage cascade. When groupByCategory is set the top
// alternatives are additionally bucketed by their category.
func (h *HierarchicalClassifier) Predict(text string, groupByCategory bool) HierarchicalResult {
	catModel, catErr := h.category.Get()
	compModel, compErr := h.component.Get()
	if catErr != nil || compErr != nil {
		return HierarchicalResult{Reason: ReasonModelsNotLoaded}
	}

	// Stage 1: category.
	catDist, err := catModel.PredictProba(text)
	if err != nil || len(catDist.Probs) == 0 {
		logging.Errorf("Category prediction failed: %v", err)
		return HierarchicalResult{Reason: ReasonCategoryPredictionFailed}
	}
	catIdx := argmax(catDist.Probs, catDist.Labels)
	predictedCategory := catDist.Labels[catIdx]
	catConfidence := catDist.Probs[catIdx]

	// Stage 2: component, restricted to the predicted category.
	compDist, err := compModel.PredictProba(text)
	if err != nil || len(compDist.Probs) == 0 {
		logging.Errorf("Component prediction failed: %v", err)
		return HierarchicalResult{Reason: ReasonComponentPredictionFailed}
	}

	inCategory := make(map[string]struct{})
	for _, label := range h.mapping.LabelsForCategory(predictedCategory) {
		inCategory[label] = struct{}{}
	}

	filteredLabels := make([]string, 0, len(compDist.Labels))
	filteredProbs := make([]float64, 0, len(compDist.Probs))
	for i, label := range compDist.Labels {
		if _, ok := inCategory[label]; ok {
			filteredLabels = append(filteredLabels, label)
			filteredProbs = append(filteredProbs, compDist.Probs[i])
		}
	}

	// A mapping/model mismatch can empty the filtered set; fall back to the
	// unfiltered vector rather than returning zero candidates.
	if len(filteredLabels) == 0 {
		logging.Warnf("Category %q matched no component classes; using unfiltered distribution", predictedCategory)
		filteredLabels = append(filteredLabels, compDist.Labels...)
		filteredProbs = append(filteredProbs, compDist.Probs...)
	}

	// Renormalize within the filtered set.
	total := floats.Sum(filteredProbs)
	if total > 0 {
		for i := range filteredProbs {
			filteredProbs[i] /= total
		}
	} else {
		uniform := 1.0 / float64(len(filteredProbs))
		for i := range filteredProbs {
			filteredProbs[i] = uniform
		}
	}

	order := rankIndices(filteredProbs, filteredLabels)
	top := order
	if len(top) > 5 {
		top = top[:5]
	}

	alternatives := make([]Alternative, 0, len(top))
	for _, i := range top {
		alternatives = append(alternatives, Alternative{Label: filteredLabels[i], Confidence: filteredProbs[i]})
	}

	best := order[0]
	result := HierarchicalResult{
		Label:              filteredLabels[best],
		Category:           predictedCategory,
		CategoryConfidence: catConfidence,
		Confidence:         catConfidence * filteredProbs[best],
		Alternatives:       alternatives,
	}
	if groupByCategory {
		result.Grouped = GroupByCategory(alternatives, h.mapping)
	}
	return result
}

// Available reports whether both stages of the cascade can run.
func (h *HierarchicalClassifier) Available() bool {
	return h.category.Available() && h.component.Available()
}

// argmax returns the index of the highest probability, breaking ties by
// label so repeated calls are deterministic.
func argmax(probs []float64, labels []string) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] || (probs[i] == probs[best] && labels[i] < labels[best]) {
			best = i
		}
	}
	return best
}

// rankIndices orders indices by descending probability, ties by label.
func rankIndices(probs []float64, labels []string) []int {
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if probs[ia] != probs[ib] {
			return probs[ia] > probs[ib]
		}
		return labels[ia] < labels[ib]
	})
	return order
}

// GroupByCategory buckets alternatives by each label's category, sorting
// each bucket by descending confidence. Labels missing from the mapping are
// grouped under "Other".
func GroupByCategory(alternatives []Alternative, mapping *CategoryMapping) map[string][]Alternative {
	grouped := make(map[string][]Alternative)
	for _, alt := range alternatives {
		category, ok := mapping.CategoryForLabel(alt.Label)
		if !ok {
			category = "Other"
		}
		grouped[category] = append(grouped[category], alt)
	}
	for category := range grouped {
		bucket := grouped[category]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Confidence != bucket[j].Confidence {
				return bucket[i].Confidence > bucket[j].Confidence
			}
			return bucket[i].Label < bucket[j].Label
		})
	}
	return grouped
}
