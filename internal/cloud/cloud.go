// Package cloud turns tag occurrence counts into a styled markup
// fragment: counts are filtered and weighted logarithmically, ordered
// per the directive, then rendered as sized anchors.
package cloud

import (
	"math/rand"

	"tag-cloud-maker/internal/directive"
	"tag-cloud-maker/internal/models"
)

// Generate runs the full pipeline for one render invocation: parse the
// directive, weigh the counts, order the result and render it. Each
// call is an independent computation; rng seeds the rand sort mode and
// may be nil when the directive does not request it.
func Generate(raw string, counts []models.TagCount, basePath string, rng *rand.Rand) string {
	cfg := directive.Parse(raw)
	weighted := Weigh(counts, cfg.Threshold)
	ordered := Order(weighted, cfg, rng)
	return Render(ordered, cfg, basePath)
}
