package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordFallbackScoring(t *testing.T) {
	k := NewKeywordFallback()

	alts := k.Classify("wifi and internet connection trouble")
	require.NotEmpty(t, alts)
	assert.Equal(t, "WiFi Adapter Upgrade", alts[0].Label)
	// Three keyword hits: 0.2 + 3*0.1.
	assert.InDelta(t, 0.5, alts[0].Confidence, 1e-9)
}

func TestKeywordFallbackConfidenceCeiling(t *testing.T) {
	k := NewKeywordFallback()

	alts := k.Classify("wifi wi-fi wireless internet network adapter connection")
	require.NotEmpty(t, alts)
	assert.Equal(t, "WiFi Adapter Upgrade", alts[0].Label)
	assert.InDelta(t, 0.5, alts[0].Confidence, 1e-9, "score never exceeds the ceiling")
}

func TestKeywordFallbackReturnsTopThree(t *testing.T) {
	k := NewKeywordFallback()

	// Touches GPU cooling, power, boot, and memory tables at once.
	alts := k.Classify("overheating gpu, random power loss, won't start, ram errors")
	assert.LessOrEqual(t, len(alts), 3)
	for i := 1; i < len(alts); i++ {
		assert.LessOrEqual(t, alts[i].Confidence, alts[i-1].Confidence)
	}
}

func TestKeywordFallbackNoMatch(t *testing.T) {
	k := NewKeywordFallback()

	assert.Nil(t, k.Classify("qwerty asdf zxcv"))
	assert.Nil(t, k.Classify("   "))
}

func TestKeywordFallbackDeterministicTieBreak(t *testing.T) {
	k := NewKeywordFallback()

	first := k.Classify("power and boot trouble")
	second := k.Classify("power and boot trouble")
	assert.Equal(t, first, second)
}
