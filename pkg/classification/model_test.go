package classification

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadPipelineArtifact(t *testing.T) {
	v, nb := fitSmallModel(t)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, SaveModel(path, v, nb))

	model, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, nb.Classes, model.Labels())

	dist, err := model.PredictProba("very slow computer")
	require.NoError(t, err)
	assert.Equal(t, nb.Classes, dist.Labels)
	require.Len(t, dist.Probs, 2)
}

func TestLoadPartsArtifact(t *testing.T) {
	v, nb := fitSmallModel(t)
	path := filepath.Join(t.TempDir(), "parts.json")

	data, err := json.Marshal(artifact{Format: "parts", Vectorizer: v, Classifier: nb})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	model, err := LoadModel(path)
	require.NoError(t, err)

	dist, err := model.PredictProba("no power at all")
	require.NoError(t, err)
	require.Len(t, dist.Probs, 2)
	assert.Greater(t, dist.Probs[0], dist.Probs[1])
}

func TestLoadPartsArtifactDetectsFeatureMismatch(t *testing.T) {
	v, nb := fitSmallModel(t)
	// Re-fit the vectorizer on a different corpus, breaking the pairing.
	v2 := NewTFIDFVectorizer()
	v2.Fit([]string{"one tiny corpus", "another tiny corpus"})

	path := filepath.Join(t.TempDir(), "parts.json")
	data, err := json.Marshal(artifact{Format: "parts", Vectorizer: v2, Classifier: nb})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	model, err := LoadModel(path)
	require.NoError(t, err, "the mismatch is a prediction-time error")

	_, err = model.PredictProba("slow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature mismatch")
	_ = v
}

func TestLoadModelRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weird.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"pickle"}`), 0o644))

	_, err := LoadModel(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown artifact format")
}

func TestLoadModelRejectsIncompleteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incomplete.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"pipeline"}`), 0o644))

	_, err := LoadModel(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestModelStoreLazyLoad(t *testing.T) {
	v, nb := fitSmallModel(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveModel(path, v, nb))

	store := NewModelStore(path)
	assert.True(t, store.Available())

	first, err := store.Get()
	require.NoError(t, err)
	second, err := store.Get()
	require.NoError(t, err)
	assert.Same(t, first, second, "the artifact is loaded once and cached")
}

func TestModelStoreMissingArtifact(t *testing.T) {
	store := NewModelStore(filepath.Join(t.TempDir(), "absent.json"))
	assert.False(t, store.Available())

	_, err := store.Get()
	assert.Error(t, err)
}

func TestModelStoreUnconfigured(t *testing.T) {
	store := NewModelStore("")
	assert.False(t, store.Available())

	_, err := store.Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model artifact configured")
}
