package cloud_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag-cloud-maker/internal/cloud"
	"tag-cloud-maker/internal/models"
)

// TestWeigh_Threshold verifies tags below the occurrence threshold are
// dropped before any weight is computed.
func TestWeigh_Threshold(t *testing.T) {
	counts := []models.TagCount{
		{Name: "go", Count: 10},
		{Name: "sql", Count: 2},
		{Name: "once", Count: 1},
	}

	weighted := cloud.Weigh(counts, 2)
	require.Len(t, weighted, 2)
	for _, wt := range weighted {
		assert.NotEqual(t, "once", wt.Name)
	}
}

// TestWeigh_Bounds verifies weights stay in [0,1] and that the extreme
// counts land exactly on 0 and 1.
func TestWeigh_Bounds(t *testing.T) {
	counts := []models.TagCount{
		{Name: "x", Count: 1},
		{Name: "mid", Count: 4},
		{Name: "y", Count: 10},
	}

	weighted := cloud.Weigh(counts, 1)
	require.Len(t, weighted, 3)

	byName := make(map[string]float64, len(weighted))
	for _, wt := range weighted {
		assert.GreaterOrEqual(t, wt.Weight, 0.0)
		assert.LessOrEqual(t, wt.Weight, 1.0)
		byName[wt.Name] = wt.Weight
	}

	assert.Equal(t, 0.0, byName["x"], "minimum count must weigh 0")
	assert.Equal(t, 1.0, byName["y"], "maximum count must weigh 1")

	// Logarithmic, not linear: ln(4)/ln(10)
	assert.InDelta(t, math.Log(4)/math.Log(10), byName["mid"], 1e-12)
}

// TestWeigh_DegenerateRange covers min == max: every qualifying tag gets
// the uniform midpoint weight instead of a NaN.
func TestWeigh_DegenerateRange(t *testing.T) {
	counts := []models.TagCount{
		{Name: "a", Count: 5},
		{Name: "b", Count: 5},
	}

	weighted := cloud.Weigh(counts, 2)
	require.Len(t, weighted, 2)
	for _, wt := range weighted {
		assert.Equal(t, 0.5, wt.Weight)
		assert.False(t, math.IsNaN(wt.Weight))
	}

	// Single qualifying tag is the same degenerate case
	weighted = cloud.Weigh([]models.TagCount{{Name: "solo", Count: 7}}, 1)
	require.Len(t, weighted, 1)
	assert.Equal(t, 0.5, weighted[0].Weight)
}

// TestWeigh_Empty verifies an empty qualifying set yields nil, not a
// panic or NaN.
func TestWeigh_Empty(t *testing.T) {
	assert.Nil(t, cloud.Weigh(nil, 1))
	assert.Nil(t, cloud.Weigh([]models.TagCount{{Name: "rare", Count: 1}}, 5))
}
