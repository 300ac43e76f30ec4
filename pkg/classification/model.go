package classification

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ProbaModel is a trained text classifier producing a labeled probability
// distribution. Artifacts come in two historical shapes (a combined pipeline,
// or a raw vectorizer + classifier pair); both are adapted to this interface
// once at load time.
type ProbaModel interface {
	PredictProba(text string) (Distribution, error)
	Labels() []string
}

// artifact is the on-disk JSON shape of a serialized model.
type artifact struct {
	Format string `json:"format"` // "pipeline" or "parts"

	// Pipeline format: one nested object.
	Pipeline *pipelinePayload `json:"pipeline,omitempty"`

	// Parts format: vectorizer and classifier side by side.
	Vectorizer *TFIDFVectorizer `json:"vectorizer,omitempty"`
	Classifier *MultinomialNB   `json:"classifier,omitempty"`
}

type pipelinePayload struct {
	Vectorizer *TFIDFVectorizer `json:"vectorizer"`
	Classifier *MultinomialNB   `json:"classifier"`
}

// pipelineModel adapts the combined-pipeline artifact shape.
type pipelineModel struct {
	vectorizer *TFIDFVectorizer
	classifier *MultinomialNB
}

func (m *pipelineModel) PredictProba(text string) (Distribution, error) {
	vec := m.vectorizer.Transform(text)
	probs := m.classifier.PredictProba(vec)
	return Distribution{Labels: m.classifier.Classes, Probs: probs}, nil
}

func (m *pipelineModel) Labels() []string { return m.classifier.Classes }

// partsModel adapts the raw vectorizer+classifier artifact shape. The two
// halves are serialized independently, so their consistency is checked at
// load time instead of being assumed.
type partsModel struct {
	vectorizer *TFIDFVectorizer
	classifier *MultinomialNB
}

func (m *partsModel) PredictProba(text string) (Distribution, error) {
	vec := m.vectorizer.Transform(text)
	if len(m.classifier.FeatureLogProb) > 0 && len(m.classifier.FeatureLogProb[0]) != m.vectorizer.FeatureCount() {
		return Distribution{}, fmt.Errorf("vectorizer/classifier feature mismatch: %d vs %d",
			m.vectorizer.FeatureCount(), len(m.classifier.FeatureLogProb[0]))
	}
	probs := m.classifier.PredictProba(vec)
	return Distribution{Labels: m.classifier.Classes, Probs: probs}, nil
}

func (m *partsModel) Labels() []string { return m.classifier.Classes }

// LoadModel reads a serialized model artifact and adapts it to ProbaModel.
// The variant is chosen once here; callers never branch on artifact shape.
func LoadModel(path string) (ProbaModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	switch a.Format {
	case "pipeline":
		if a.Pipeline == nil || a.Pipeline.Vectorizer == nil || a.Pipeline.Classifier == nil {
			return nil, fmt.Errorf("pipeline artifact %s is incomplete", path)
		}
		return &pipelineModel{vectorizer: a.Pipeline.Vectorizer, classifier: a.Pipeline.Classifier}, nil
	case "parts":
		if a.Vectorizer == nil || a.Classifier == nil {
			return nil, fmt.Errorf("parts artifact %s is incomplete", path)
		}
		return &partsModel{vectorizer: a.Vectorizer, classifier: a.Classifier}, nil
	default:
		return nil, fmt.Errorf("unknown artifact format %q in %s", a.Format, path)
	}
}

// SaveModel writes a pipeline-format artifact atomically (write-then-rename)
// so concurrent readers never observe a partially written file.
func SaveModel(path string, vectorizer *TFIDFVectorizer, classifier *MultinomialNB) error {
	a := artifact{
		Format:   "pipeline",
		Pipeline: &pipelinePayload{Vectorizer: vectorizer, Classifier: classifier},
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to swap artifact into place: %w", err)
	}
	return nil
}

// ModelStore lazily loads one model artifact on first use and caches the
// handle for the life of the process. The artifact is immutable; a replaced
// file is only picked up by a new process.
type ModelStore struct {
	path  string
	once  sync.Once
	model ProbaModel
	err   error
}

// NewModelStore returns a store for the artifact at path. An empty path
// yields a store that always reports "not available".
func NewModelStore(path string) *ModelStore {
	return &ModelStore{path: path}
}

// Get returns the cached model, loading it on first call.
func (s *ModelStore) Get() (ProbaModel, error) {
	s.once.Do(func() {
		if s.path == "" {
			s.err = fmt.Errorf("no model artifact configured")
			return
		}
		s.model, s.err = LoadModel(s.path)
	})
	return s.model, s.err
}

// Available reports whether the artifact loaded (or would load) successfully.
func (s *ModelStore) Available() bool {
	m, err := s.Get()
	return err == nil && m != nil
}
