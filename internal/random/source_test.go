package random_test

import (
	"testing"

	"github.com/ShiJbey/neighborly/internal/random"
	mockrandom "github.com/ShiJbey/neighborly/internal/random/mock"
	"github.com/stretchr/testify/assert"
)

func TestSeeded_Deterministic(t *testing.T) {
	a := random.NewSeeded(42)
	b := random.NewSeeded(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestWeightedIndex(t *testing.T) {
	src := mockrandom.NewManualMockSource()
	weights := []float64{1, 0, 3}

	tests := []struct {
		roll float64
		want int
	}{
		{0.0, 0},
		{0.24, 0},
		{0.25, 2},
		{0.99, 2},
	}

	for _, tt := range tests {
		src.SetFloats(tt.roll)
		assert.Equal(t, tt.want, random.WeightedIndex(src, weights), "roll %v", tt.roll)
	}

	assert.Equal(t, -1, random.WeightedIndex(src, []float64{0, -1}))
	assert.Equal(t, -1, random.WeightedIndex(src, nil))
}

func TestChance(t *testing.T) {
	src := mockrandom.NewManualMockSource()

	assert.False(t, random.Chance(src, 0))
	assert.True(t, random.Chance(src, 1))

	src.SetFloats(0.3, 0.7)
	assert.True(t, random.Chance(src, 0.5))
	assert.False(t, random.Chance(src, 0.5))
	assert.Equal(t, 0, src.Remaining())
}
