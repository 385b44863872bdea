package cloud

import (
	"fmt"
	"strconv"
	"strings"

	"tag-cloud-maker/internal/directive"
	"tag-cloud-maker/internal/models"
)

// Render produces the markup fragment for an already-ordered tag list.
// Each tag becomes an anchor sized by linear interpolation between
// SizeMin and SizeMax, wrapped in TagBefore/TagAfter, followed by the
// separator (omitted after the last tag) and a newline. The anchor's
// href is basePath plus the lower-cased tag name; the anchor text keeps
// the original casing.
func Render(tags []models.WeightedTag, cfg directive.Config, basePath string) string {
	basePath = strings.TrimSuffix(basePath, "/")

	var b strings.Builder
	for i, tag := range tags {
		size := cfg.SizeMin + (cfg.SizeMax-cfg.SizeMin)*tag.Weight
		sizeStr := strconv.FormatFloat(size, 'f', cfg.Precision, 64)

		sep := cfg.Separator
		if i == len(tags)-1 {
			sep = ""
		}

		fmt.Fprintf(&b, "%s<a style=\"font-size: %s%s\" href=\"%s/%s\">%s</a>%s%s\n",
			cfg.TagBefore, sizeStr, cfg.Unit, basePath, strings.ToLower(tag.Name), tag.Name, cfg.TagAfter, sep)
	}

	return b.String()
}
