package config

// RouterConfig is the top-level configuration for the diagnosis router.
type RouterConfig struct {
	// Thresholds gate each stage of the arbitration cascade.
	Thresholds ThresholdConfig `yaml:"thresholds"`

	// Models points at the serialized classifier artifacts.
	Models ModelConfig `yaml:"models"`

	// Feedback configures the active-learning feedback store.
	Feedback FeedbackConfig `yaml:"feedback"`

	// Training configures the offline retraining job.
	Training TrainingConfig `yaml:"training"`

	// DefaultLabel is returned when every stage abstains.
	DefaultLabel string `yaml:"default_label"`

	// CategoryMappingPath optionally overrides the built-in
	// category -> labels table with a JSON file.
	CategoryMappingPath string `yaml:"category_mapping_path"`

	// Rules extends the built-in rule table. Extension rules are evaluated
	// after the built-in ones, preserving first-match priority.
	Rules []RuleConfig `yaml:"rules"`

	// API configures the HTTP surface.
	API APIConfig `yaml:"api"`
}

// ThresholdConfig holds the confidence gates of the cascade.
// Zero values are replaced with defaults at load time.
type ThresholdConfig struct {
	// RuleHigh accepts a rule match immediately on the classify path.
	RuleHigh float64 `yaml:"rule_high"`
	// RuleHighStrict is the stricter gate used by category detection.
	RuleHighStrict float64 `yaml:"rule_high_strict"`
	// MLHigh accepts a hierarchical or flat model prediction.
	MLHigh float64 `yaml:"ml_high"`
	// Review triggers a feedback-store append below this confidence.
	Review float64 `yaml:"review"`
	// DefaultConfidence is attached to the default/no-opinion label.
	DefaultConfidence float64 `yaml:"default_confidence"`
}

// ModelConfig holds artifact paths. A missing or empty path disables the
// corresponding stage; the cascade degrades instead of failing.
type ModelConfig struct {
	CategoryPath  string `yaml:"category_path"`
	ComponentPath string `yaml:"component_path"`
	FlatPath      string `yaml:"flat_path"`
}

// FeedbackConfig configures the feedback store.
type FeedbackConfig struct {
	// DBPath is the SQLite database file used for feedback records.
	DBPath string `yaml:"db_path"`
}

// TrainingConfig configures the offline retraining job.
type TrainingConfig struct {
	// DataPath is the CSV file of historical training examples
	// (columns: user_text, component_label).
	DataPath string `yaml:"data_path"`
	// BackupDir receives timestamped copies of artifacts before overwrite.
	// Defaults to the directory of the category artifact.
	BackupDir string `yaml:"backup_dir"`
	// HoldoutFraction of the merged corpus reserved for evaluation.
	HoldoutFraction float64 `yaml:"holdout_fraction"`
	// MinExamplesPerClass drops labels with fewer examples before fitting.
	MinExamplesPerClass int `yaml:"min_examples_per_class"`
}

// RuleConfig is one declarative pattern rule. Keywords are AND-combined:
// every keyword must appear as a case-insensitive substring.
type RuleConfig struct {
	Keywords    []string `yaml:"keywords"`
	Label       string   `yaml:"label"`
	Confidence  float64  `yaml:"confidence"`
	Explanation string   `yaml:"explanation"`
	Related     []string `yaml:"related"`
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

const (
	DefaultRuleHigh          = 0.7
	DefaultRuleHighStrict    = 0.8
	DefaultMLHigh            = 0.6
	DefaultReviewThreshold   = 0.5
	DefaultDefaultConfidence = 0.3
	DefaultLabelName         = "General Repair"
)

// applyDefaults fills unset fields in place.
func (c *RouterConfig) applyDefaults() {
	if c.Thresholds.RuleHigh == 0 {
		c.Thresholds.RuleHigh = DefaultRuleHigh
	}
	if c.Thresholds.RuleHighStrict == 0 {
		c.Thresholds.RuleHighStrict = DefaultRuleHighStrict
	}
	if c.Thresholds.MLHigh == 0 {
		c.Thresholds.MLHigh = DefaultMLHigh
	}
	if c.Thresholds.Review == 0 {
		c.Thresholds.Review = DefaultReviewThreshold
	}
	if c.Thresholds.DefaultConfidence == 0 {
		c.Thresholds.DefaultConfidence = DefaultDefaultConfidence
	}
	if c.DefaultLabel == "" {
		c.DefaultLabel = DefaultLabelName
	}
	if c.Training.HoldoutFraction == 0 {
		c.Training.HoldoutFraction = 0.2
	}
	if c.Training.MinExamplesPerClass == 0 {
		c.Training.MinExamplesPerClass = 2
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.MetricsPort == 0 {
		c.API.MetricsPort = 9190
	}
}
