package training

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
)

type fakeSource struct {
	examples []feedback.Example
	err      error
}

func (f *fakeSource) ListCorrected() ([]feedback.Example, error) {
	return f.examples, f.err
}

func jobConfig(t *testing.T) *config.RouterConfig {
	t.Helper()
	dir := t.TempDir()

	var rows []string
	rows = append(rows, "user_text,component_label")
	slowTexts := []string{
		"my computer is very slow",
		"computer slow when opening programs",
		"laptop slow and freezing often",
		"everything is slow after startup",
		"pc very slow with chrome open",
		"slow performance in all programs",
	}
	powerTexts := []string{
		"pc has no power at all",
		"computer loses power randomly",
		"power cuts out under load",
		"no power when pressing the button",
		"power supply clicking and no boot",
		"random power loss while gaming",
	}
	for _, text := range slowTexts {
		rows = append(rows, text+",RAM Upgrade")
	}
	for _, text := range powerTexts {
		rows = append(rows, text+",PSU Upgrade")
	}
	dataPath := filepath.Join(dir, "corpus.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(strings.Join(rows, "\n")+"\n"), 0o644))

	return &config.RouterConfig{
		Models: config.ModelConfig{
			CategoryPath:  filepath.Join(dir, "category.json"),
			ComponentPath: filepath.Join(dir, "component.json"),
			FlatPath:      filepath.Join(dir, "flat.json"),
		},
		Training: config.TrainingConfig{
			DataPath:            dataPath,
			BackupDir:           filepath.Join(dir, "backups"),
			HoldoutFraction:     0.2,
			MinExamplesPerClass: 2,
		},
	}
}

func TestJobRunProducesLoadableArtifacts(t *testing.T) {
	cfg := jobConfig(t)
	job := NewJob(cfg, nil, nil)

	report, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, report.Samples)
	assert.Empty(t, report.Backups, "nothing to back up on the first run")
	assert.False(t, report.FinishedAt.IsZero())

	for _, path := range []string{cfg.Models.CategoryPath, cfg.Models.ComponentPath, cfg.Models.FlatPath} {
		model, err := classification.LoadModel(path)
		require.NoError(t, err, "artifact %s must load", path)

		dist, err := model.PredictProba("my pc is really slow")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sum(dist.Probs), 1e-9)
	}

	category, err := classification.LoadModel(cfg.Models.CategoryPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Performance", "Power"}, category.Labels())
}

func TestJobRunMergesCorrections(t *testing.T) {
	cfg := jobConfig(t)
	source := &fakeSource{examples: []feedback.Example{
		{Text: "screen has dead pixels everywhere", Label: "Monitor Replacement"},
		{Text: "monitor shows dead pixels in the corner", Label: "Monitor Replacement"},
		{Text: "dead pixels appeared on the display", Label: "Monitor Replacement"},
		{Text: "cluster of dead pixels on my monitor", Label: "Monitor Replacement"},
	}}
	job := NewJob(cfg, source, nil)

	report, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Corrections)
	assert.Equal(t, 16, report.Samples)

	component, err := classification.LoadModel(cfg.Models.ComponentPath)
	require.NoError(t, err)
	assert.Contains(t, component.Labels(), "Monitor Replacement")
}

func TestJobRunBacksUpExistingArtifacts(t *testing.T) {
	cfg := jobConfig(t)
	job := NewJob(cfg, nil, nil)

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	report, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Backups, 3)
	for _, backup := range report.Backups {
		info, err := os.Stat(backup)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestJobRunFailsWithoutCorpus(t *testing.T) {
	cfg := jobConfig(t)
	cfg.Training.DataPath = filepath.Join(t.TempDir(), "missing.csv")
	job := NewJob(cfg, nil, nil)

	_, err := job.Run(context.Background())
	assert.Error(t, err)
}

func TestJobRunFailsOnCorrectionSourceError(t *testing.T) {
	cfg := jobConfig(t)
	job := NewJob(cfg, &fakeSource{err: fmt.Errorf("db locked")}, nil)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestJobRunDropsUnmappedLabels(t *testing.T) {
	cfg := jobConfig(t)
	source := &fakeSource{examples: []feedback.Example{
		{Text: "mystery complaint", Label: "Not A Real Component"},
	}}
	job := NewJob(cfg, source, nil)

	report, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.Samples, "unmapped label does not reach the corpus")
}

func sum(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}
