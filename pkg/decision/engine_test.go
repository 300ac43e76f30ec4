package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/rules"
)

type fakeMatcher struct {
	match *rules.Match
	calls int
}

func (f *fakeMatcher) Match(string) *rules.Match {
	f.calls++
	return f.match
}

type fakeHierarchical struct {
	res       classification.HierarchicalResult
	available bool
	calls     int
}

func (f *fakeHierarchical) Predict(string, bool) classification.HierarchicalResult {
	f.calls++
	return f.res
}

func (f *fakeHierarchical) Available() bool { return f.available }

type fakeFlat struct {
	dist      classification.Distribution
	err       error
	available bool
	calls     int
}

func (f *fakeFlat) PredictProba(string) (classification.Distribution, error) {
	f.calls++
	return f.dist, f.err
}

func (f *fakeFlat) Available() bool { return f.available }

type fakeRecorder struct {
	texts []string
	err   error
}

func (f *fakeRecorder) RecordForReview(text string, _ *classification.Prediction) error {
	f.texts = append(f.texts, text)
	return f.err
}

func testConfig() *config.RouterConfig {
	return &config.RouterConfig{
		Thresholds: config.ThresholdConfig{
			RuleHigh:          0.7,
			RuleHighStrict:    0.8,
			MLHigh:            0.6,
			Review:            0.5,
			DefaultConfidence: 0.3,
		},
		DefaultLabel: "General Repair",
	}
}

func TestClassifyEmptyInputShortCircuits(t *testing.T) {
	matcher := &fakeMatcher{}
	recorder := &fakeRecorder{}
	engine := NewEngine(Options{Config: testConfig(), Matcher: matcher, Recorder: recorder})

	p := engine.Classify("   ", false)

	require.NotNil(t, p)
	assert.Equal(t, "General Repair", p.Label)
	assert.Equal(t, classification.SourceNone, p.Source)
	assert.InDelta(t, 0.3, p.Confidence, 1e-9)
	assert.True(t, p.AskFeedback)
	assert.Zero(t, matcher.calls, "no stage runs on empty input")
	assert.Empty(t, recorder.texts, "empty input is not worth reviewing")
}

func TestClassifyHighConfidenceRuleSkipsModels(t *testing.T) {
	matcher := &fakeMatcher{match: &rules.Match{
		Label:       "PSU / Power Issue",
		Confidence:  0.95,
		Explanation: "No power usually means PSU failure.",
		Related:     []string{"PSU Upgrade", "Power Cable Replacement"},
	}}
	hier := &fakeHierarchical{available: true}
	flat := &fakeFlat{available: true}
	engine := NewEngine(Options{Config: testConfig(), Matcher: matcher, Hierarchical: hier, Flat: flat})

	p := engine.Classify("no power at all", true)

	assert.Equal(t, "PSU / Power Issue", p.Label)
	assert.Equal(t, classification.SourceRule, p.Source)
	assert.GreaterOrEqual(t, p.Confidence, 0.9)
	assert.False(t, p.AskFeedback)
	assert.Zero(t, hier.calls, "a winning rule must not consult the models")
	assert.Zero(t, flat.calls)

	// Related labels join the alternatives at a discount, primary pinned.
	require.GreaterOrEqual(t, len(p.Alternatives), 3)
	assert.Equal(t, "PSU / Power Issue", p.Alternatives[0].Label)
	assert.InDelta(t, 0.95*0.8, p.Alternatives[1].Confidence, 1e-9)
	assert.NotEmpty(t, p.Grouped)
}

func TestClassifyHierarchicalWinsOverLowConfidenceRule(t *testing.T) {
	matcher := &fakeMatcher{match: &rules.Match{Label: "USB / Port Issue", Confidence: 0.5}}
	hier := &fakeHierarchical{
		available: true,
		res: classification.HierarchicalResult{
			Label:      "RAM Upgrade",
			Category:   "Performance",
			Confidence: 0.72,
			Alternatives: []classification.Alternative{
				{Label: "RAM Upgrade", Confidence: 0.72},
				{Label: "SSD Upgrade", Confidence: 0.18},
			},
		},
	}
	engine := NewEngine(Options{Config: testConfig(), Matcher: matcher, Hierarchical: hier})

	p := engine.Classify("slow when many programs open", false)

	assert.Equal(t, "RAM Upgrade", p.Label)
	assert.Equal(t, classification.SourceHierarchicalML, p.Source)
	assert.Equal(t, 1, hier.calls)
}

func TestClassifyLowConfidenceRuleBeatsFlatModel(t *testing.T) {
	matcher := &fakeMatcher{match: &rules.Match{Label: "USB / Port Issue", Confidence: 0.5}}
	flat := &fakeFlat{
		available: true,
		dist: classification.Distribution{
			Labels: []string{"RAM Upgrade"},
			Probs:  []float64{0.99},
		},
	}
	engine := NewEngine(Options{Config: testConfig(), Matcher: matcher, Flat: flat})

	p := engine.Classify("usb stick acting weird", false)

	assert.Equal(t, "USB / Port Issue", p.Label)
	assert.Equal(t, classification.SourceRule, p.Source)
	assert.Zero(t, flat.calls, "a rule match, however weak, preempts the flat model")
}

func TestClassifyFlatModelStage(t *testing.T) {
	flat := &fakeFlat{
		available: true,
		dist: classification.Distribution{
			Labels: []string{"SSD Upgrade", "RAM Upgrade", "CPU Upgrade"},
			Probs:  []float64{0.65, 0.25, 0.10},
		},
	}
	engine := NewEngine(Options{Config: testConfig(), Flat: flat})

	p := engine.Classify("everything takes forever to open", false)

	assert.Equal(t, "SSD Upgrade", p.Label)
	assert.Equal(t, classification.SourceFlatML, p.Source)
	require.Len(t, p.Alternatives, 3)
	assert.Equal(t, "SSD Upgrade", p.Alternatives[0].Label)
}

func TestClassifyFlatModelBelowGateFallsThrough(t *testing.T) {
	flat := &fakeFlat{
		available: true,
		dist: classification.Distribution{
			Labels: []string{"SSD Upgrade", "RAM Upgrade"},
			Probs:  []float64{0.55, 0.45},
		},
	}
	engine := NewEngine(Options{Config: testConfig(), Flat: flat})

	p := engine.Classify("wifi keeps dropping the connection", false)

	assert.Equal(t, classification.SourceKeywordFallback, p.Source)
	assert.Equal(t, "WiFi Adapter Upgrade", p.Label)
	assert.LessOrEqual(t, p.Confidence, 0.5)
	assert.True(t, p.AskFeedback)
}

func TestClassifyFlatModelErrorDegrades(t *testing.T) {
	flat := &fakeFlat{available: true, err: errors.New("artifact corrupt")}
	engine := NewEngine(Options{Config: testConfig(), Flat: flat})

	p := engine.Classify("something about the internet", false)

	require.NotNil(t, p)
	assert.NotEqual(t, classification.SourceFlatML, p.Source)
	assert.NotEmpty(t, p.Label)
}

func TestClassifyTotalWithZeroStages(t *testing.T) {
	engine := NewEngine(Options{Config: testConfig()})

	p := engine.Classify("qwerty asdf zxcv", false)

	assert.Equal(t, "General Repair", p.Label)
	assert.Equal(t, classification.SourceNone, p.Source)
	assert.InDelta(t, 0.3, p.Confidence, 1e-9)
	assert.True(t, p.AskFeedback)
}

func TestClassifyRecordsLowConfidenceExactlyOnce(t *testing.T) {
	recorder := &fakeRecorder{}
	engine := NewEngine(Options{Config: testConfig(), Recorder: recorder})

	engine.Classify("qwerty asdf zxcv", false)

	require.Len(t, recorder.texts, 1)
	assert.Equal(t, "qwerty asdf zxcv", recorder.texts[0])
}

func TestClassifyRecorderFailureDoesNotChangeResult(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	engine := NewEngine(Options{Config: testConfig(), Recorder: recorder})

	p := engine.Classify("qwerty asdf zxcv", false)

	assert.Equal(t, "General Repair", p.Label)
	assert.True(t, p.AskFeedback)
}

func TestClassifyConfidentResultSkipsRecorder(t *testing.T) {
	matcher := &fakeMatcher{match: &rules.Match{Label: "GPU Upgrade", Confidence: 0.92}}
	recorder := &fakeRecorder{}
	engine := NewEngine(Options{Config: testConfig(), Matcher: matcher, Recorder: recorder})

	p := engine.Classify("valorant low fps", false)

	assert.False(t, p.AskFeedback)
	assert.Empty(t, recorder.texts)
}

func TestClassifyDeterministic(t *testing.T) {
	engine := NewEngine(Options{Config: testConfig()})

	first := engine.Classify("wifi and internet and network problems", false)
	second := engine.Classify("wifi and internet and network problems", false)

	assert.Equal(t, first, second)
}

func TestDetectCategoryStrictRuleGate(t *testing.T) {
	engine := NewEngine(Options{
		Config:  testConfig(),
		Matcher: &fakeMatcher{match: &rules.Match{Label: "GPU Upgrade", Confidence: 0.92}},
	})

	p := engine.DetectCategory("valorant low fps")

	assert.Equal(t, "Performance", p.Label)
	assert.Equal(t, classification.SourceRule, p.Source)
	assert.InDelta(t, 0.92, p.Confidence, 1e-9)
}

func TestDetectCategoryRuleBelowStrictGate(t *testing.T) {
	engine := NewEngine(Options{
		Config:  testConfig(),
		Matcher: &fakeMatcher{match: &rules.Match{Label: "GPU Upgrade", Confidence: 0.75}},
	})

	p := engine.DetectCategory("low fps maybe")

	assert.Equal(t, "General", p.Label)
	assert.Equal(t, classification.SourceNone, p.Source)
	assert.True(t, p.AskFeedback)
}

func TestDetectCategoryUsesCategoryConfidence(t *testing.T) {
	hier := &fakeHierarchical{
		available: true,
		res: classification.HierarchicalResult{
			Label:              "RAM Upgrade",
			Category:           "Performance",
			CategoryConfidence: 0.81,
			Confidence:         0.40, // combined score below the gate
		},
	}
	engine := NewEngine(Options{Config: testConfig(), Hierarchical: hier})

	p := engine.DetectCategory("slow with many tabs")

	assert.Equal(t, "Performance", p.Label)
	assert.Equal(t, classification.SourceHierarchicalML, p.Source)
	assert.InDelta(t, 0.81, p.Confidence, 1e-9)
}

func TestMergeAlternatives(t *testing.T) {
	primary := classification.Alternative{Label: "RAM Upgrade", Confidence: 0.9}

	merged := mergeAlternatives(primary,
		[]string{"SSD Upgrade", "RAM Upgrade", "CPU Upgrade"},
		[]classification.Alternative{
			{Label: "SSD Upgrade", Confidence: 0.95}, // duplicate, dropped
			{Label: "GPU Upgrade", Confidence: 0.5},
			{Label: "CPU Cooler Upgrade", Confidence: 0.1},
			{Label: "Case Fan Upgrade", Confidence: 0.05},
		})

	require.Len(t, merged, 5, "capped at five")
	assert.Equal(t, "RAM Upgrade", merged[0].Label, "primary pinned first")
	assert.InDelta(t, 0.72, merged[1].Confidence, 1e-9, "related labels discounted")
	labels := map[string]int{}
	for _, alt := range merged {
		labels[alt.Label]++
	}
	for label, n := range labels {
		assert.Equal(t, 1, n, "duplicate label %q", label)
	}
	for i := 2; i < len(merged); i++ {
		assert.LessOrEqual(t, merged[i].Confidence, merged[i-1].Confidence)
	}
}

func TestTopAlternatives(t *testing.T) {
	dist := classification.Distribution{
		Labels: []string{"A", "B", "C", "D"},
		Probs:  []float64{0.1, 0.4, 0.4, 0.1},
	}

	alts := topAlternatives(dist, 3)

	require.Len(t, alts, 3)
	assert.Equal(t, "B", alts[0].Label, "name tie-break is deterministic")
	assert.Equal(t, "C", alts[1].Label)

	assert.Nil(t, topAlternatives(classification.Distribution{}, 3))
}
