package classification

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MultinomialNB is a multinomial naive Bayes classifier over sparse TF-IDF
// vectors. Classes are kept in sorted order so prediction output is
// deterministic for a given artifact.
type MultinomialNB struct {
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	Alpha          float64     `json:"alpha"`
}

// NewMultinomialNB returns an unfitted classifier with Laplace smoothing.
func NewMultinomialNB() *MultinomialNB {
	return &MultinomialNB{Alpha: 1.0}
}

// Fit trains the classifier on sparse vectors and their labels.
func (nb *MultinomialNB) Fit(vectors []map[int]float64, labels []string, featureCount int) error {
	if len(vectors) == 0 {
		return fmt.Errorf("no training examples")
	}
	if len(vectors) != len(labels) {
		return fmt.Errorf("got %d vectors but %d labels", len(vectors), len(labels))
	}

	classSet := make(map[string]struct{})
	for _, l := range labels {
		classSet[l] = struct{}{}
	}
	if len(classSet) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(classSet))
	}

	nb.Classes = make([]string, 0, len(classSet))
	for c := range classSet {
		nb.Classes = append(nb.Classes, c)
	}
	sort.Strings(nb.Classes)

	classIdx := make(map[string]int, len(nb.Classes))
	for i, c := range nb.Classes {
		classIdx[c] = i
	}

	counts := make([]float64, len(nb.Classes))
	featureSums := make([][]float64, len(nb.Classes))
	for i := range featureSums {
		featureSums[i] = make([]float64, featureCount)
	}

	for i, vec := range vectors {
		ci := classIdx[labels[i]]
		counts[ci]++
		for f, w := range vec {
			featureSums[ci][f] += w
		}
	}

	total := floats.Sum(counts)
	nb.ClassLogPrior = make([]float64, len(nb.Classes))
	nb.FeatureLogProb = make([][]float64, len(nb.Classes))
	for ci := range nb.Classes {
		nb.ClassLogPrior[ci] = math.Log(counts[ci] / total)
		row := make([]float64, featureCount)
		denom := floats.Sum(featureSums[ci]) + nb.Alpha*float64(featureCount)
		for f := 0; f < featureCount; f++ {
			row[f] = math.Log((featureSums[ci][f] + nb.Alpha) / denom)
		}
		nb.FeatureLogProb[ci] = row
	}
	return nil
}

// PredictProba returns the posterior probability of each class for one sparse
// vector, in class order.
func (nb *MultinomialNB) PredictProba(vec map[int]float64) []float64 {
	scores := make([]float64, len(nb.Classes))
	for ci := range nb.Classes {
		s := nb.ClassLogPrior[ci]
		row := nb.FeatureLogProb[ci]
		for f, w := range vec {
			if f < len(row) {
				s += w * row[f]
			}
		}
		scores[ci] = s
	}

	// Softmax over joint log-likelihoods.
	lse := floats.LogSumExp(scores)
	for i := range scores {
		scores[i] = math.Exp(scores[i] - lse)
	}
	return scores
}
