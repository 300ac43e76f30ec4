package training

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
	"github.com/pcfixlab/diagrouter/pkg/observability/metrics"
)

// CorrectionSource supplies user-corrected examples for the merge step.
type CorrectionSource interface {
	ListCorrected() ([]feedback.Example, error)
}

// Report summarizes one completed retraining run.
type Report struct {
	Samples           int       `json:"samples"`
	Corrections       int       `json:"corrections"`
	CategoryAccuracy  float64   `json:"category_accuracy"`
	ComponentAccuracy float64   `json:"component_accuracy"`
	FlatAccuracy      float64   `json:"flat_accuracy"`
	Backups           []string  `json:"backups,omitempty"`
	FinishedAt        time.Time `json:"finished_at"`
}

// Job retrains the category, component, and flat artifacts from the merged
// corpus. Concurrent Run calls collapse into one execution; callers share
// the same report.
type Job struct {
	training config.TrainingConfig
	models   config.ModelConfig
	mapping  *classification.CategoryMapping
	source   CorrectionSource
	group    singleflight.Group
}

// NewJob wires a retraining job. source may be nil when no feedback store
// is configured; the job then retrains from the base corpus alone.
func NewJob(cfg *config.RouterConfig, source CorrectionSource, mapping *classification.CategoryMapping) *Job {
	if mapping == nil {
		mapping = classification.DefaultCategoryMapping()
	}
	return &Job{
		training: cfg.Training,
		models:   cfg.Models,
		mapping:  mapping,
		source:   source,
	}
}

// Run executes the retraining pipeline: load the base corpus, merge
// corrections as ground truth, back up the current artifacts, fit all three
// models, and atomically swap the artifacts in. On any error the artifacts
// on disk stay as they were (modulo already-swapped earlier models, which
// the backups cover).
func (j *Job) Run(ctx context.Context) (*Report, error) {
	v, err, _ := j.group.Do("retrain", func() (interface{}, error) {
		return j.run(ctx)
	})
	if err != nil {
		metrics.RecordRetrainRun(false)
		return nil, err
	}
	metrics.RecordRetrainRun(true)
	return v.(*Report), nil
}

func (j *Job) run(ctx context.Context) (*Report, error) {
	base, err := LoadCSV(j.training.DataPath)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded %d base training examples from %s", len(base), j.training.DataPath)

	var corrections []feedback.Example
	if j.source != nil {
		corrections, err = j.source.ListCorrected()
		if err != nil {
			return nil, fmt.Errorf("load corrections: %w", err)
		}
		logging.Infof("Merging %d corrected feedback examples", len(corrections))
	}

	merged := Merge(base, corrections)
	if len(merged) == 0 {
		return nil, fmt.Errorf("merged corpus is empty")
	}

	// Component examples whose label is missing from the category mapping
	// cannot participate in the hierarchy and are dropped.
	var component []feedback.Example
	var category []feedback.Example
	for _, ex := range merged {
		cat, ok := j.mapping.CategoryForLabel(ex.Label)
		if !ok {
			logging.Warnf("Dropping example with unmapped label %q", ex.Label)
			continue
		}
		component = append(component, ex)
		category = append(category, feedback.Example{Text: ex.Text, Label: cat})
	}
	if len(component) == 0 {
		return nil, fmt.Errorf("no examples with mapped labels")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backups, err := j.backupArtifacts()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Samples:     len(component),
		Corrections: len(corrections),
		Backups:     backups,
	}

	report.CategoryAccuracy, err = j.fitAndSave(ctx, "category", category, j.models.CategoryPath, 1)
	if err != nil {
		return nil, err
	}
	minPerClass := j.training.MinExamplesPerClass
	report.ComponentAccuracy, err = j.fitAndSave(ctx, "component", component, j.models.ComponentPath, minPerClass)
	if err != nil {
		return nil, err
	}
	report.FlatAccuracy, err = j.fitAndSave(ctx, "flat", component, j.models.FlatPath, minPerClass)
	if err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now().UTC()
	logging.Infof("Retraining complete: %d samples, accuracy category=%.4f component=%.4f flat=%.4f",
		report.Samples, report.CategoryAccuracy, report.ComponentAccuracy, report.FlatAccuracy)
	return report, nil
}

// fitAndSave trains one model and swaps its artifact in. An empty path
// skips the model: not every deployment carries all three.
func (j *Job) fitAndSave(ctx context.Context, name string, examples []feedback.Example, path string, minPerClass int) (float64, error) {
	if path == "" {
		logging.Debugf("Skipping %s model: no artifact path configured", name)
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if minPerClass > 1 {
		filtered := FilterMinClass(examples, minPerClass)
		// The original corpus survives mostly intact or the filter is too
		// aggressive for this run; mirror that guard here.
		if float64(len(filtered)) >= float64(len(examples))*0.8 {
			examples = filtered
		}
	}

	train, holdout := Split(examples, j.training.HoldoutFraction)
	fit, err := Fit(train, holdout)
	if err != nil {
		return 0, fmt.Errorf("train %s model: %w", name, err)
	}
	if err := classification.SaveModel(path, fit.Vectorizer, fit.Classifier); err != nil {
		return 0, fmt.Errorf("save %s model: %w", name, err)
	}
	logging.Infof("Saved %s model to %s (holdout accuracy %.4f)", name, path, fit.Accuracy)
	return fit.Accuracy, nil
}

// backupArtifacts copies every existing artifact into the backup directory
// with a timestamp suffix before anything is overwritten.
func (j *Job) backupArtifacts() ([]string, error) {
	stamp := time.Now().Format("20060102_150405")
	var backups []string
	for _, path := range []string{j.models.CategoryPath, j.models.ComponentPath, j.models.FlatPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		dir := j.training.BackupDir
		if dir == "" {
			dir = filepath.Dir(path)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		backupPath := filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", base[:len(base)-len(ext)], stamp, ext))
		if err := copyFile(path, backupPath); err != nil {
			return nil, fmt.Errorf("back up %s: %w", path, err)
		}
		logging.Infof("Backed up %s to %s", path, backupPath)
		backups = append(backups, backupPath)
	}
	return backups, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
