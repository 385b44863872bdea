package cloud

import (
	"math/rand"
	"sort"

	"tag-cloud-maker/internal/directive"
	"tag-cloud-maker/internal/models"
)

// Order arranges weighted tags according to the directive's sort mode,
// order and limit. The input slice is not mutated; rng drives the rand
// mode and must be non-nil when that mode is in use.
//
// With a positive limit and a non-rand mode the list is first sorted
// descending by weight and truncated, so the limit always keeps the most
// frequent tags regardless of the final presentation order. For freq
// with a limit, a desc order request is therefore already satisfied by
// the truncation step and no second sort runs.
func Order(tags []models.WeightedTag, cfg directive.Config, rng *rand.Rand) []models.WeightedTag {
	out := make([]models.WeightedTag, len(tags))
	copy(out, tags)

	if cfg.Limit > 0 && cfg.Sort != directive.SortRand {
		sortByWeight(out, directive.OrderDesc)
		if len(out) > cfg.Limit {
			out = out[:cfg.Limit]
		}
	}

	switch cfg.Sort {
	case directive.SortFreq:
		if cfg.Order == directive.OrderAsc {
			sortByWeight(out, directive.OrderAsc)
		} else if cfg.Limit == 0 {
			sortByWeight(out, directive.OrderDesc)
		}
	case directive.SortRand:
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		if cfg.Limit > 0 && len(out) > cfg.Limit {
			out = out[:cfg.Limit]
		}
	default:
		// alpha, and any mode Parse never produces.
		sortByName(out, cfg.Order)
	}

	return out
}

func sortByWeight(tags []models.WeightedTag, order directive.SortOrder) {
	sort.SliceStable(tags, func(i, j int) bool {
		if order == directive.OrderDesc {
			return tags[i].Weight > tags[j].Weight
		}
		return tags[i].Weight < tags[j].Weight
	})
}

func sortByName(tags []models.WeightedTag, order directive.SortOrder) {
	sort.SliceStable(tags, func(i, j int) bool {
		if order == directive.OrderDesc {
			return tags[i].Name > tags[j].Name
		}
		return tags[i].Name < tags[j].Name
	})
}
