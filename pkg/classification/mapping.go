package classification

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// CategoryMapping holds the bidirectional mapping between coarse categories
// and fine-grained labels. Every label belongs to exactly one category; the
// mapping is validated once at construction and immutable afterwards.
type CategoryMapping struct {
	categoryToLabels map[string][]string
	labelToCategory  map[string]string
}

// NewCategoryMapping builds and validates a mapping from a
// category -> labels table. It fails fast when a label appears in more than
// one category, so a mapping/model mismatch is caught at startup rather than
// silently falling back at request time.
func NewCategoryMapping(table map[string][]string) (*CategoryMapping, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("category mapping is empty")
	}

	m := &CategoryMapping{
		categoryToLabels: make(map[string][]string, len(table)),
		labelToCategory:  make(map[string]string),
	}

	for category, labels := range table {
		if len(labels) == 0 {
			return nil, fmt.Errorf("category %q has no labels", category)
		}
		for _, label := range labels {
			if prev, ok := m.labelToCategory[label]; ok {
				return nil, fmt.Errorf("label %q appears in both %q and %q", label, prev, category)
			}
			m.labelToCategory[label] = category
		}
		sorted := append([]string(nil), labels...)
		sort.Strings(sorted)
		m.categoryToLabels[category] = sorted
	}

	return m, nil
}

// LoadCategoryMapping loads the mapping from a JSON file shaped as
// {"Category": ["Label", ...], ...}.
func LoadCategoryMapping(path string) (*CategoryMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse mapping JSON: %w", err)
	}

	return NewCategoryMapping(table)
}

// CategoryForLabel returns the category a label belongs to.
func (m *CategoryMapping) CategoryForLabel(label string) (string, bool) {
	category, ok := m.labelToCategory[label]
	return category, ok
}

// LabelsForCategory returns the sorted labels of a category.
func (m *CategoryMapping) LabelsForCategory(category string) []string {
	return m.categoryToLabels[category]
}

// Categories returns all category names, sorted.
func (m *CategoryMapping) Categories() []string {
	out := make([]string, 0, len(m.categoryToLabels))
	for c := range m.categoryToLabels {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Labels returns the full label set, sorted.
func (m *CategoryMapping) Labels() []string {
	out := make([]string, 0, len(m.labelToCategory))
	for l := range m.labelToCategory {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// LabelCount returns the number of labels in the mapping.
func (m *CategoryMapping) LabelCount() int {
	return len(m.labelToCategory)
}

// DefaultCategoryMapping returns the built-in category table covering the
// hardware components and error types this system diagnoses.
func DefaultCategoryMapping() *CategoryMapping {
	m, err := NewCategoryMapping(defaultCategoryTable)
	if err != nil {
		// The built-in table is validated by tests; reaching this is a bug.
		panic(err)
	}
	return m
}

var defaultCategoryTable = map[string][]string{
	"Performance": {
		"RAM Upgrade",
		"SSD Upgrade",
		"CPU Upgrade",
		"GPU Upgrade",
		"CPU Cooler Upgrade",
		"GPU Cooler Upgrade",
		"Case Fan Upgrade",
		"Thermal Paste Reapply",
	},
	"Power": {
		"PSU Upgrade",
		"PSU / Power Issue",
		"Power Cable Replacement",
		"Laptop Battery Replacement",
	},
	"Network": {
		"WiFi Adapter Upgrade",
		"Router Upgrade",
		"Ethernet Adapter Replacement",
	},
	"Display": {
		"Monitor Replacement",
		"Monitor or GPU Check",
		"Display Cable Replacement",
		"Laptop Screen Repair",
		"No Display / No Signal",
	},
	"Storage": {
		"HDD Upgrade",
		"External Drive Purchase",
		"Data Recovery",
	},
	"Peripherals": {
		"Webcam Upgrade",
		"Microphone Upgrade",
		"USB Hub",
		"USB / Port Issue",
		"Keyboard Replacement",
		"Audio Issue",
	},
	"General": {
		"General Repair",
		"Windows Boot Failure",
		"Blue Screen (BSOD)",
		"OS Reinstall",
		"Virus / Malware Removal",
	},
}
