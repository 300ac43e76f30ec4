package training

import (
	"fmt"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
)

// FitResult is one fitted text classifier plus its holdout accuracy.
type FitResult struct {
	Vectorizer *classification.TFIDFVectorizer
	Classifier *classification.MultinomialNB
	Accuracy   float64
}

// Fit trains a TF-IDF + naive Bayes classifier on train and scores it on
// holdout. An empty holdout reports accuracy 0 without failing; the caller
// decides whether that is acceptable.
func Fit(train, holdout []feedback.Example) (*FitResult, error) {
	if len(train) == 0 {
		return nil, fmt.Errorf("empty training set")
	}

	corpus := make([]string, len(train))
	labels := make([]string, len(train))
	for i, ex := range train {
		corpus[i] = ex.Text
		labels[i] = ex.Label
	}

	vectorizer := classification.NewTFIDFVectorizer()
	vectorizer.Fit(corpus)

	vectors := make([]map[int]float64, len(corpus))
	for i, text := range corpus {
		vectors[i] = vectorizer.Transform(text)
	}

	nb := classification.NewMultinomialNB()
	if err := nb.Fit(vectors, labels, vectorizer.FeatureCount()); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	result := &FitResult{Vectorizer: vectorizer, Classifier: nb}
	if len(holdout) > 0 {
		correct := 0
		for _, ex := range holdout {
			probs := nb.PredictProba(vectorizer.Transform(ex.Text))
			best := 0
			for i := range probs {
				if probs[i] > probs[best] {
					best = i
				}
			}
			if nb.Classes[best] == ex.Label {
				correct++
			}
		}
		result.Accuracy = float64(correct) / float64(len(holdout))
	}
	return result, nil
}
