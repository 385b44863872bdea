package cloud

import (
	"math"

	"tag-cloud-maker/internal/models"
)

// Weigh filters out tags below the occurrence threshold and assigns each
// remaining tag a weight in [0,1], scaled logarithmically between the
// smallest and largest qualifying counts.
//
// When every qualifying count is equal (including the single-tag case)
// the log range collapses to zero; all tags then get a uniform weight of
// 0.5 so they render at the midpoint size instead of a NaN one.
func Weigh(counts []models.TagCount, threshold int) []models.WeightedTag {
	qualifying := make([]models.TagCount, 0, len(counts))
	for _, tc := range counts {
		if tc.Count >= threshold {
			qualifying = append(qualifying, tc)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	min, max := qualifying[0].Count, qualifying[0].Count
	for _, tc := range qualifying[1:] {
		if tc.Count < min {
			min = tc.Count
		}
		if tc.Count > max {
			max = tc.Count
		}
	}

	weighted := make([]models.WeightedTag, 0, len(qualifying))
	if min == max {
		for _, tc := range qualifying {
			weighted = append(weighted, models.WeightedTag{Name: tc.Name, Weight: 0.5})
		}
		return weighted
	}

	logMin := math.Log(float64(min))
	logRange := math.Log(float64(max)) - logMin
	for _, tc := range qualifying {
		w := (math.Log(float64(tc.Count)) - logMin) / logRange
		weighted = append(weighted, models.WeightedTag{Name: tc.Name, Weight: w})
	}

	return weighted
}
