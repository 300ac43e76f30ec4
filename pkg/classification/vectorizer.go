package classification

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// TFIDFVectorizer turns text into sparse TF-IDF feature vectors. It combines
// word n-grams and character n-grams in one feature space, mirroring the
// feature union the models were originally trained with. Word features are
// keyed "w:<gram>" and character features "c:<gram>" in the vocabulary.
type TFIDFVectorizer struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	WordNgramMin int            `json:"word_ngram_min"`
	WordNgramMax int            `json:"word_ngram_max"`
	CharNgramMin int            `json:"char_ngram_min"`
	CharNgramMax int            `json:"char_ngram_max"`
	SublinearTF  bool           `json:"sublinear_tf"`
	MinDF        int            `json:"min_df"`
}

// NewTFIDFVectorizer returns an unfitted vectorizer with the default
// word(1,2) + char(3,5) feature space.
func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		WordNgramMin: 1,
		WordNgramMax: 2,
		CharNgramMin: 3,
		CharNgramMax: 5,
		SublinearTF:  true,
		MinDF:        2,
	}
}

// FeatureCount returns the size of the fitted feature space.
func (v *TFIDFVectorizer) FeatureCount() int {
	return len(v.Vocabulary)
}

// Fit builds the vocabulary and IDF table from a corpus. Features occurring
// in fewer than MinDF documents are dropped. Vocabulary indices are assigned
// in sorted feature order so fitting is deterministic.
func (v *TFIDFVectorizer) Fit(corpus []string) {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, f := range v.features(doc) {
			seen[f] = struct{}{}
		}
		for f := range seen {
			df[f]++
		}
	}

	kept := make([]string, 0, len(df))
	minDF := v.MinDF
	if minDF < 1 {
		minDF = 1
	}
	for f, n := range df {
		if n >= minDF {
			kept = append(kept, f)
		}
	}
	sort.Strings(kept)

	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	n := float64(len(corpus))
	for i, f := range kept {
		v.Vocabulary[f] = i
		// Smoothed IDF, matching the convention of the original pipeline.
		v.IDF[i] = math.Log((1+n)/(1+float64(df[f]))) + 1
	}
}

// Transform converts text into a sparse, L2-normalized TF-IDF vector.
func (v *TFIDFVectorizer) Transform(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, f := range v.features(text) {
		if idx, ok := v.Vocabulary[f]; ok {
			counts[idx]++
		}
	}

	if len(counts) == 0 {
		return counts
	}

	vals := make([]float64, 0, len(counts))
	for idx, tf := range counts {
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		counts[idx] = w
		vals = append(vals, w*w)
	}

	norm := math.Sqrt(floats.Sum(vals))
	if norm > 0 {
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}

// features extracts word and character n-grams from normalized text.
func (v *TFIDFVectorizer) features(text string) []string {
	normalized := normalizeText(text)
	words := splitWords(normalized)

	var out []string
	for n := v.WordNgramMin; n <= v.WordNgramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, "w:"+strings.Join(words[i:i+n], " "))
		}
	}

	runes := []rune(normalized)
	for n := v.CharNgramMin; n <= v.CharNgramMax; n++ {
		for i := 0; i+n <= len(runes); i++ {
			out = append(out, "c:"+string(runes[i:i+n]))
		}
	}
	return out
}

// normalizeText lowercases and trims the input. All matching in this package
// runs over normalized text so classification is case-insensitive.
func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func splitWords(text string) []string {
	var words []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
