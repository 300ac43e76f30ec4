package training

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfixlab/diagrouter/pkg/feedback"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "training.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `user_text,component_label,extra
My PC is SLOW,RAM Upgrade,ignored
,RAM Upgrade,
no power at all,PSU Upgrade,
games stutter,,
`)

	examples, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, examples, 2, "rows with empty text or label are skipped")
	assert.Equal(t, feedback.Example{Text: "my pc is slow", Label: "RAM Upgrade"}, examples[0])
	assert.Equal(t, feedback.Example{Text: "no power at all", Label: "PSU Upgrade"}, examples[1])
}

func TestLoadCSVMissingColumns(t *testing.T) {
	path := writeCSV(t, "text,label\nfoo,bar\n")

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_text")
}

func TestMergeDedupesOnTextAndLabel(t *testing.T) {
	base := []feedback.Example{
		{Text: "pc is slow", Label: "RAM Upgrade"},
		{Text: "no power", Label: "PSU Upgrade"},
	}
	corrections := []feedback.Example{
		{Text: "PC is slow", Label: "RAM Upgrade"},  // duplicate after normalization
		{Text: "pc is slow", Label: "SSD Upgrade"},  // same text, new label survives
		{Text: "screen is dark", Label: "Monitor Replacement"},
		{Text: "", Label: "RAM Upgrade"}, // empty text dropped
	}

	merged := Merge(base, corrections)

	require.Len(t, merged, 4)
	assert.Equal(t, "pc is slow", merged[0].Text)
	assert.Equal(t, "SSD Upgrade", merged[2].Label)
	assert.Equal(t, "Monitor Replacement", merged[3].Label)
}

func TestFilterMinClass(t *testing.T) {
	examples := []feedback.Example{
		{Text: "a", Label: "RAM Upgrade"},
		{Text: "b", Label: "RAM Upgrade"},
		{Text: "c", Label: "PSU Upgrade"},
	}

	filtered := FilterMinClass(examples, 2)

	require.Len(t, filtered, 2)
	for _, ex := range filtered {
		assert.Equal(t, "RAM Upgrade", ex.Label)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	examples := make([]feedback.Example, 10)
	for i := range examples {
		examples[i] = feedback.Example{Text: string(rune('a' + i)), Label: "L"}
	}

	train1, holdout1 := Split(examples, 0.2)
	train2, holdout2 := Split(examples, 0.2)

	assert.Equal(t, train1, train2)
	assert.Equal(t, holdout1, holdout2)
	assert.Len(t, holdout1, 2)
	assert.Len(t, train1, 8)
}

func TestSplitKeepsAtLeastOneTrainingExample(t *testing.T) {
	examples := []feedback.Example{{Text: "only one", Label: "L"}}

	train, holdout := Split(examples, 0.99)

	assert.Len(t, train, 1)
	assert.Empty(t, holdout)
}
