package classification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryMappingRejectsDuplicateLabels(t *testing.T) {
	_, err := NewCategoryMapping(map[string][]string{
		"Performance": {"RAM Upgrade"},
		"Storage":     {"RAM Upgrade"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAM Upgrade")
}

func TestCategoryMappingLookups(t *testing.T) {
	m, err := NewCategoryMapping(map[string][]string{
		"Performance": {"SSD Upgrade", "RAM Upgrade"},
		"Power":       {"PSU Upgrade"},
	})
	require.NoError(t, err)

	category, ok := m.CategoryForLabel("RAM Upgrade")
	assert.True(t, ok)
	assert.Equal(t, "Performance", category)

	_, ok = m.CategoryForLabel("Unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"RAM Upgrade", "SSD Upgrade"}, m.LabelsForCategory("Performance"), "labels come back sorted")
	assert.Empty(t, m.LabelsForCategory("Missing"))
	assert.Equal(t, []string{"Performance", "Power"}, m.Categories())
	assert.Equal(t, 3, m.LabelCount())
}

func TestLoadCategoryMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Performance": ["RAM Upgrade", "SSD Upgrade"],
		"Power": ["PSU Upgrade"]
	}`), 0o644))

	m, err := LoadCategoryMapping(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.LabelCount())

	_, err = LoadCategoryMapping(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefaultCategoryMapping(t *testing.T) {
	m := DefaultCategoryMapping()

	// Labels used throughout the system must resolve.
	for _, label := range []string{"RAM Upgrade", "PSU / Power Issue", "General Repair", "Webcam Upgrade"} {
		_, ok := m.CategoryForLabel(label)
		assert.True(t, ok, "label %q missing from built-in mapping", label)
	}

	category, _ := m.CategoryForLabel("General Repair")
	assert.Equal(t, "General", category)
}
