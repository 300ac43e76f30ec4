package classification

// Source identifies which arbitration stage produced a prediction.
type Source string

const (
	SourceRule            Source = "rule"
	SourceHierarchicalML  Source = "hierarchical_ml"
	SourceFlatML          Source = "flat_ml"
	SourceKeywordFallback Source = "keyword_fallback"
	SourceNone            Source = "none"
)

// Alternative is one ranked candidate label.
type Alternative struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Prediction is the result of one classification call. It is always
// well-formed: Alternatives has at most five entries with unique labels and
// non-increasing confidence, and when Label is non-empty it occupies
// Alternatives[0].
type Prediction struct {
	Label        string        `json:"label,omitempty"`
	Confidence   float64       `json:"confidence"`
	Source       Source        `json:"source"`
	Explanation  string        `json:"explanation,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	Related      []string      `json:"related,omitempty"`

	// Grouped buckets Alternatives by category when requested.
	Grouped map[string][]Alternative `json:"grouped_by_category,omitempty"`

	// AskFeedback is set when confidence is below the review threshold
	// and a human correction would help the next retraining cycle.
	AskFeedback bool `json:"ask_feedback"`
}

// Distribution is a labeled probability distribution over a model's classes.
// Labels and Probs are parallel slices; Labels are in the model's canonical
// (sorted) class order.
type Distribution struct {
	Labels []string
	Probs  []float64
}
