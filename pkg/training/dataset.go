package training

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/pcfixlab/diagrouter/pkg/feedback"
)

// splitSeed fixes the holdout shuffle so repeated runs over the same corpus
// produce the same split and comparable accuracy numbers.
const splitSeed = 42

// LoadCSV reads the historical training corpus. The file must carry a
// header row naming user_text and component_label columns; other columns
// are ignored. Rows with an empty text or label are skipped.
func LoadCSV(path string) ([]feedback.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read training data header: %w", err)
	}
	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "user_text":
			textCol = i
		case "component_label":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("training data %s is missing user_text/component_label columns", path)
	}

	var examples []feedback.Example
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if textCol >= len(record) || labelCol >= len(record) {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(record[textCol]))
		label := strings.TrimSpace(record[labelCol])
		if text == "" || label == "" {
			continue
		}
		examples = append(examples, feedback.Example{Text: text, Label: label})
	}
	return examples, nil
}

// Merge appends user corrections to the base corpus as ground truth and
// drops exact (text, label) duplicates, keeping first occurrence. The same
// text under two different labels survives: a correction refines the corpus
// without erasing the original example.
func Merge(base, corrections []feedback.Example) []feedback.Example {
	type key struct{ text, label string }
	seen := make(map[key]struct{}, len(base)+len(corrections))
	merged := make([]feedback.Example, 0, len(base)+len(corrections))

	add := func(ex feedback.Example) {
		ex.Text = strings.ToLower(strings.TrimSpace(ex.Text))
		ex.Label = strings.TrimSpace(ex.Label)
		if ex.Text == "" || ex.Label == "" {
			return
		}
		k := key{ex.Text, ex.Label}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		merged = append(merged, ex)
	}
	for _, ex := range base {
		add(ex)
	}
	for _, ex := range corrections {
		add(ex)
	}
	return merged
}

// FilterMinClass drops every label with fewer than min examples. Rare
// labels destabilize the fit and cannot be split across train and holdout.
func FilterMinClass(examples []feedback.Example, min int) []feedback.Example {
	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Label]++
	}
	filtered := make([]feedback.Example, 0, len(examples))
	for _, ex := range examples {
		if counts[ex.Label] >= min {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

// Split shuffles deterministically and reserves holdoutFraction of the
// corpus for evaluation. The train side always keeps at least one example.
func Split(examples []feedback.Example, holdoutFraction float64) (train, holdout []feedback.Example) {
	shuffled := make([]feedback.Example, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(splitSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := int(float64(len(shuffled)) * holdoutFraction)
	if n >= len(shuffled) {
		n = len(shuffled) - 1
	}
	if n < 0 {
		n = 0
	}
	return shuffled[n:], shuffled[:n]
}
