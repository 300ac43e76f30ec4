package decision

import (
	"strings"
	"time"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
	"github.com/pcfixlab/diagrouter/pkg/observability/metrics"
	"github.com/pcfixlab/diagrouter/pkg/rules"
)

// RuleMatcher is the pattern-rule stage of the cascade.
type RuleMatcher interface {
	Match(text string) *rules.Match
}

// HierarchicalPredictor is the two-stage category/component model stage.
type HierarchicalPredictor interface {
	Predict(text string, groupByCategory bool) classification.HierarchicalResult
	Available() bool
}

// FlatPredictor is the single flat model stage.
type FlatPredictor interface {
	PredictProba(text string) (classification.Distribution, error)
	Available() bool
}

// KeywordScorer is the keyword-frequency heuristic stage.
type KeywordScorer interface {
	Classify(text string) []classification.Alternative
}

// Recorder persists low-confidence predictions for later human review.
type Recorder interface {
	RecordForReview(text string, p *classification.Prediction) error
}

// FlatModel adapts a lazily loaded model store to the flat stage.
type FlatModel struct {
	store *classification.ModelStore
}

// NewFlatModel wraps a model store.
func NewFlatModel(store *classification.ModelStore) *FlatModel {
	return &FlatModel{store: store}
}

func (f *FlatModel) PredictProba(text string) (classification.Distribution, error) {
	model, err := f.store.Get()
	if err != nil {
		return classification.Distribution{}, err
	}
	return model.PredictProba(text)
}

func (f *FlatModel) Available() bool {
	return f.store.Available()
}

// Options collects the engine's collaborators. Every stage is optional: a
// nil stage (or one whose Available reports false) is skipped and the
// cascade degrades to the next one, so the engine answers every input even
// with zero models on disk.
type Options struct {
	Config       *config.RouterConfig
	Matcher      RuleMatcher
	Hierarchical HierarchicalPredictor
	Flat         FlatPredictor
	Fallback     KeywordScorer
	Recorder     Recorder
	Mapping      *classification.CategoryMapping
}

// Engine arbitrates between the cascade stages. Stages run in a fixed
// order with per-stage confidence gates; the first stage to clear its gate
// wins, and later stages are not consulted. With identical inputs and
// artifacts the outcome is deterministic.
type Engine struct {
	thresholds   config.ThresholdConfig
	defaultLabel string
	matcher      RuleMatcher
	hierarchical HierarchicalPredictor
	flat         FlatPredictor
	fallback     KeywordScorer
	recorder     Recorder
	mapping      *classification.CategoryMapping
}

// NewEngine builds an engine from Options. Config and Mapping are required.
func NewEngine(opts Options) *Engine {
	cfg := opts.Config
	mapping := opts.Mapping
	if mapping == nil {
		mapping = classification.DefaultCategoryMapping()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = classification.NewKeywordFallback()
	}
	return &Engine{
		thresholds:   cfg.Thresholds,
		defaultLabel: cfg.DefaultLabel,
		matcher:      opts.Matcher,
		hierarchical: opts.Hierarchical,
		flat:         opts.Flat,
		fallback:     fallback,
		recorder:     opts.Recorder,
		mapping:      mapping,
	}
}

// Classify runs the full cascade over one malfunction description:
//
//  1. pattern rule at or above the rule gate
//  2. hierarchical model at or above the ML gate
//  3. a rule match below the rule gate (a hand-written pattern still beats
//     a model that abstained)
//  4. flat model at or above the ML gate
//  5. keyword-frequency heuristic
//  6. the default label
//
// The returned prediction is never nil and always carries a label.
func (e *Engine) Classify(text string, groupByCategory bool) *classification.Prediction {
	start := time.Now()
	defer func() {
		metrics.RecordClassificationLatency(time.Since(start).Seconds())
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return e.finish(trimmed, e.defaultPrediction(groupByCategory))
	}

	var ruleMatch *rules.Match
	if e.matcher != nil {
		ruleMatch = e.matcher.Match(trimmed)
	}
	if ruleMatch != nil && ruleMatch.Confidence >= e.thresholds.RuleHigh {
		return e.finish(trimmed, e.fromRule(ruleMatch, groupByCategory))
	}

	if e.hierarchical != nil && e.hierarchical.Available() {
		res := e.hierarchical.Predict(trimmed, groupByCategory)
		if res.Label != "" && res.Confidence >= e.thresholds.MLHigh {
			return e.finish(trimmed, e.fromHierarchical(res))
		}
		if res.Reason != "" {
			logging.Debugf("Hierarchical stage abstained: %s", res.Reason)
		}
	}

	if ruleMatch != nil {
		return e.finish(trimmed, e.fromRule(ruleMatch, groupByCategory))
	}

	if e.flat != nil && e.flat.Available() {
		dist, err := e.flat.PredictProba(trimmed)
		if err != nil {
			logging.Errorf("Flat model prediction failed: %v", err)
		} else if alts := topAlternatives(dist, maxAlternatives); len(alts) > 0 &&
			alts[0].Confidence >= e.thresholds.MLHigh {
			return e.finish(trimmed, e.fromFlat(alts, groupByCategory))
		}
	}

	if alts := e.fallback.Classify(trimmed); len(alts) > 0 {
		return e.finish(trimmed, e.fromFallback(alts, groupByCategory))
	}

	return e.finish(trimmed, e.defaultPrediction(groupByCategory))
}

// DetectCategory resolves the input to a top-level category instead of a
// component label. The rule stage uses the stricter gate here because a
// category answer aggregates many labels and a borderline rule hit is a
// weaker signal for the aggregate.
func (e *Engine) DetectCategory(text string) *classification.Prediction {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && e.matcher != nil {
		if m := e.matcher.Match(trimmed); m != nil && m.Confidence >= e.thresholds.RuleHighStrict {
			if category, ok := e.mapping.CategoryForLabel(m.Label); ok {
				return &classification.Prediction{
					Label:        category,
					Confidence:   m.Confidence,
					Source:       classification.SourceRule,
					Explanation:  m.Explanation,
					Alternatives: []classification.Alternative{{Label: category, Confidence: m.Confidence}},
				}
			}
		}
	}

	if trimmed != "" && e.hierarchical != nil && e.hierarchical.Available() {
		res := e.hierarchical.Predict(trimmed, false)
		if res.Category != "" && res.CategoryConfidence >= e.thresholds.MLHigh {
			return &classification.Prediction{
				Label:      res.Category,
				Confidence: res.CategoryConfidence,
				Source:     classification.SourceHierarchicalML,
				Alternatives: []classification.Alternative{
					{Label: res.Category, Confidence: res.CategoryConfidence},
				},
			}
		}
	}

	return &classification.Prediction{
		Label:      "General",
		Confidence: e.thresholds.DefaultConfidence,
		Source:     classification.SourceNone,
		Alternatives: []classification.Alternative{
			{Label: "General", Confidence: e.thresholds.DefaultConfidence},
		},
		AskFeedback: true,
	}
}

func (e *Engine) fromRule(m *rules.Match, groupByCategory bool) *classification.Prediction {
	primary := classification.Alternative{Label: m.Label, Confidence: m.Confidence}
	alts := mergeAlternatives(primary, m.Related, nil)
	p := &classification.Prediction{
		Label:        m.Label,
		Confidence:   m.Confidence,
		Source:       classification.SourceRule,
		Explanation:  m.Explanation,
		Alternatives: alts,
		Related:      m.Related,
	}
	if groupByCategory {
		p.Grouped = classification.GroupByCategory(alts, e.mapping)
	}
	return p
}

func (e *Engine) fromHierarchical(res classification.HierarchicalResult) *classification.Prediction {
	return &classification.Prediction{
		Label:        res.Label,
		Confidence:   res.Confidence,
		Source:       classification.SourceHierarchicalML,
		Alternatives: res.Alternatives,
		Grouped:      res.Grouped,
	}
}

func (e *Engine) fromFlat(alts []classification.Alternative, groupByCategory bool) *classification.Prediction {
	p := &classification.Prediction{
		Label:        alts[0].Label,
		Confidence:   alts[0].Confidence,
		Source:       classification.SourceFlatML,
		Alternatives: alts,
	}
	if groupByCategory {
		p.Grouped = classification.GroupByCategory(alts, e.mapping)
	}
	return p
}

func (e *Engine) fromFallback(alts []classification.Alternative, groupByCategory bool) *classification.Prediction {
	p := &classification.Prediction{
		Label:        alts[0].Label,
		Confidence:   alts[0].Confidence,
		Source:       classification.SourceKeywordFallback,
		Alternatives: alts,
	}
	if groupByCategory {
		p.Grouped = classification.GroupByCategory(alts, e.mapping)
	}
	return p
}

func (e *Engine) defaultPrediction(groupByCategory bool) *classification.Prediction {
	p := &classification.Prediction{
		Label:      e.defaultLabel,
		Confidence: e.thresholds.DefaultConfidence,
		Source:     classification.SourceNone,
		Alternatives: []classification.Alternative{
			{Label: e.defaultLabel, Confidence: e.thresholds.DefaultConfidence},
		},
	}
	if groupByCategory {
		p.Grouped = classification.GroupByCategory(p.Alternatives, e.mapping)
	}
	return p
}

// finish applies the cross-cutting outcome steps exactly once per request:
// stage metrics, the review flag, and the feedback append.
func (e *Engine) finish(text string, p *classification.Prediction) *classification.Prediction {
	metrics.RecordStageMatch(string(p.Source), p.Confidence)

	if p.Confidence < e.thresholds.Review {
		p.AskFeedback = true
		if e.recorder != nil && text != "" {
			if err := e.recorder.RecordForReview(text, p); err != nil {
				// Feedback is best effort; the prediction still stands.
				logging.Warnf("Failed to record low-confidence prediction: %v", err)
			}
		}
	}

	logging.Debugf("Classified as %q (confidence=%.3f, source=%s)", p.Label, p.Confidence, p.Source)
	return p
}
