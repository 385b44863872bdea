// Package directive parses the tag cloud configuration mini-language.
//
// A directive is a comma-separated list of "key: value" fragments, e.g.
//
//	font-size: 70 - 170%, threshold: 2, sort: freq desc, limit: 20
//
// Parsing is total: unknown keys and malformed values are silently
// ignored and the corresponding Config fields keep their defaults.
// Because fragments are split on commas before the per-key grammars run,
// a separator literal in "style: para{...}" cannot itself contain a
// comma.
package directive

import (
	"regexp"
	"strconv"
	"strings"
)

// SortMode selects how the weighted tags are ordered.
type SortMode string

const (
	SortAlpha SortMode = "alpha"
	SortFreq  SortMode = "freq"
	SortRand  SortMode = "rand"
)

// SortOrder is the direction of an alpha or freq sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Style selects the wrapper markup and default separator.
type Style string

const (
	StyleList Style = "list"
	StylePara Style = "para"
)

// Config holds one render invocation's settings. It is built once by
// Parse and never mutated by the downstream pipeline stages.
type Config struct {
	SizeMin   float64
	SizeMax   float64
	Precision int
	Unit      string
	Threshold int
	Limit     int
	Sort      SortMode
	Order     SortOrder
	Style     Style
	TagBefore string
	TagAfter  string
	Separator string
}

// Default returns the Config used when the directive is empty or when a
// fragment fails to parse.
func Default() Config {
	return Config{
		SizeMin:   70,
		SizeMax:   170,
		Precision: 0,
		Unit:      "%",
		Threshold: 1,
		Limit:     0,
		Sort:      SortAlpha,
		Order:     OrderAsc,
		Style:     StyleList,
		TagBefore: "<li>",
		TagAfter:  "</li>",
		Separator: "",
	}
}

var (
	// <min>[.<frac>] - <max>[.<frac>]<unit>, unit one of %, em, px.
	fontSizeRe = regexp.MustCompile(`(\d+)(?:\.(\d+))?\s*-\s*(\d+)(?:\.(\d+))?\s*(%|em|px)`)
	numberRe   = regexp.MustCompile(`\d+`)
	sortRe     = regexp.MustCompile(`(freq|rand|alpha)(?:\s+(asc|desc))?`)
	styleRe    = regexp.MustCompile(`(list|para)(\{(.*)\})?`)
)

// Parse builds a Config from a raw directive string. It never fails;
// every fragment that does not match its grammar is ignored.
func Parse(raw string) Config {
	cfg := Default()

	for _, frag := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(frag, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "font-size":
			cfg.parseFontSize(val)
		case "threshold":
			cfg.parseThreshold(val)
		case "limit":
			cfg.parseLimit(val)
		case "sort":
			cfg.parseSort(val)
		case "style":
			cfg.parseStyle(val)
		}
	}

	return cfg
}

func (c *Config) parseFontSize(val string) {
	m := fontSizeRe.FindStringSubmatch(val)
	if m == nil {
		return
	}

	min, err := strconv.ParseFloat(m[1]+fraction(m[2]), 64)
	if err != nil {
		return
	}
	max, err := strconv.ParseFloat(m[3]+fraction(m[4]), 64)
	if err != nil {
		return
	}

	c.SizeMin = min
	c.SizeMax = max
	c.Unit = m[5]
	// Rendered sizes carry as many decimal places as the longest
	// fractional run the caller wrote, e.g. "0.80 - 1.8em" gives 2.
	c.Precision = len(m[2])
	if len(m[4]) > c.Precision {
		c.Precision = len(m[4])
	}
}

func fraction(digits string) string {
	if digits == "" {
		return ""
	}
	return "." + digits
}

func (c *Config) parseThreshold(val string) {
	if n, ok := parseNumber(val); ok {
		c.Threshold = n
	}
}

func (c *Config) parseLimit(val string) {
	if n, ok := parseNumber(val); ok {
		c.Limit = n
	}
}

func parseNumber(val string) (int, bool) {
	m := numberRe.FindString(val)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Config) parseSort(val string) {
	m := sortRe.FindStringSubmatch(val)
	if m == nil {
		return
	}

	c.Sort = SortMode(m[1])
	switch {
	case m[2] != "":
		c.Order = SortOrder(m[2])
	case c.Sort == SortFreq:
		// Frequency sorts read best most-popular-first, so the order
		// default follows the parsed mode rather than the pre-parse one.
		c.Order = OrderDesc
	default:
		c.Order = OrderAsc
	}
}

func (c *Config) parseStyle(val string) {
	m := styleRe.FindStringSubmatch(val)
	if m == nil {
		return
	}

	c.Style = Style(m[1])
	if m[2] != "" {
		// Braces present; the literal may be empty.
		c.Separator = m[3]
	} else if c.Style == StylePara {
		c.Separator = ", "
	}

	// Destructive post-overrides: para drops the wrapper tags, list
	// drops the separator even when one was explicitly supplied.
	if c.Style == StylePara {
		c.TagBefore = ""
		c.TagAfter = ""
	} else {
		c.Separator = ""
	}
}
