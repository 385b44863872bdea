package cloud_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag-cloud-maker/internal/cloud"
	"tag-cloud-maker/internal/models"
)

// TestGenerate_ThresholdAndEqualCounts is the equal-counts end-to-end
// case: {a:5, b:5, c:1} with threshold 2 renders exactly a and b, in
// alphabetical order, at identical sizes.
func TestGenerate_ThresholdAndEqualCounts(t *testing.T) {
	counts := []models.TagCount{
		{Name: "b", Count: 5},
		{Name: "a", Count: 5},
		{Name: "c", Count: 1},
	}

	out := cloud.Generate("threshold: 2, sort: alpha", counts, "/tags", nil)
	doc := parseFragment(t, out)

	anchors := doc.Find("a")
	require.Equal(t, 2, anchors.Length())
	assert.Equal(t, "a", anchors.Eq(0).Text())
	assert.Equal(t, "b", anchors.Eq(1).Text())
	assert.NotContains(t, out, ">c<")

	styleA, _ := anchors.Eq(0).Attr("style")
	styleB, _ := anchors.Eq(1).Attr("style")
	assert.Equal(t, styleA, styleB, "equal counts must render at equal sizes")
}

// TestGenerate_WeightExtremes is the two-tag end-to-end case: counts 1
// and 10 land exactly on the configured size bounds.
func TestGenerate_WeightExtremes(t *testing.T) {
	counts := []models.TagCount{
		{Name: "x", Count: 1},
		{Name: "y", Count: 10},
	}

	out := cloud.Generate("font-size: 10 - 20px", counts, "/tags", nil)

	assert.Contains(t, out, `<a style="font-size: 10px" href="/tags/x">x</a>`)
	assert.Contains(t, out, `<a style="font-size: 20px" href="/tags/y">y</a>`)
}

// TestGenerate_PrecisionRoundTrip verifies every rendered size carries
// the two decimal places implied by "0.80 - 1.80em".
func TestGenerate_PrecisionRoundTrip(t *testing.T) {
	counts := []models.TagCount{
		{Name: "a", Count: 1},
		{Name: "b", Count: 3},
		{Name: "c", Count: 7},
		{Name: "d", Count: 20},
	}

	out := cloud.Generate("font-size: 0.80 - 1.80em", counts, "/tags", nil)

	sizeRe := regexp.MustCompile(`font-size: (\d+\.\d+)em`)
	matches := sizeRe.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 4)
	for _, m := range matches {
		_, frac, _ := strings.Cut(m[1], ".")
		assert.Len(t, frac, 2, "size %q must have exactly two decimal places", m[1])
	}
}

// TestGenerate_LimitCount verifies limit caps the output at
// min(N, qualifying) for the non-rand modes.
func TestGenerate_LimitCount(t *testing.T) {
	counts := []models.TagCount{
		{Name: "a", Count: 2},
		{Name: "b", Count: 4},
		{Name: "c", Count: 8},
		{Name: "d", Count: 16},
	}

	for _, raw := range []string{"sort: alpha, limit: 3", "sort: freq, limit: 3"} {
		doc := parseFragment(t, cloud.Generate(raw, counts, "/tags", nil))
		assert.Equal(t, 3, doc.Find("a").Length(), "directive %q", raw)
	}

	doc := parseFragment(t, cloud.Generate("sort: alpha, limit: 9", counts, "/tags", nil))
	assert.Equal(t, 4, doc.Find("a").Length(), "limit above qualifying count keeps everything")
}

// TestGenerate_ExcludesBelowThreshold verifies no sub-threshold tag ever
// reaches the output.
func TestGenerate_ExcludesBelowThreshold(t *testing.T) {
	counts := []models.TagCount{
		{Name: "keep", Count: 9},
		{Name: "alsokeep", Count: 3},
		{Name: "drop", Count: 2},
		{Name: "alsodrop", Count: 1},
	}

	out := cloud.Generate("threshold: 3", counts, "/tags", nil)

	assert.Contains(t, out, "keep")
	assert.NotContains(t, out, "drop")
}

func TestGenerate_EmptyQualifyingSet(t *testing.T) {
	counts := []models.TagCount{{Name: "rare", Count: 1}}

	out := cloud.Generate("threshold: 10", counts, "/tags", nil)
	assert.Equal(t, "", out)
}
