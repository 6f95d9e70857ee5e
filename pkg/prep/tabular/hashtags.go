package tabular

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags pulls hashtags out of free text in order of appearance.
func ExtractHashtags(text string) []string {
	if isNullLike(text) {
		return []string{}
	}
	tags := hashtagPattern.FindAllString(text, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// cellStrategy attempts one interpretation of a hashtag cell. Strategies
// are tried in a fixed order until one matches.
type cellStrategy func(string) ([]string, bool)

var cellStrategies = []cellStrategy{
	parseJSONArray,
	parseCommaSeparated,
	parseSingleton,
}

// ParseHashtagCell interprets a pre-existing hashtag column value: a
// JSON-array string, a comma-separated list (each token forced to carry
// the # marker), or a single #-prefixed token. Null-like values and
// anything unrecognized become the empty list.
func ParseHashtagCell(value string) []string {
	s := strings.TrimSpace(value)
	if isNullLike(s) {
		return []string{}
	}
	for _, try := range cellStrategies {
		if tags, ok := try(s); ok {
			return tags
		}
	}
	return []string{}
}

func parseJSONArray(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}

	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err == nil {
		if tags == nil {
			tags = []string{}
		}
		return tags, true
	}

	// Mixed-type arrays still pass through, stringified.
	var raw []any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	tags = make([]string, len(raw))
	for i, v := range raw {
		tags[i] = fmt.Sprint(v)
	}
	return tags, true
}

func parseCommaSeparated(s string) ([]string, bool) {
	if !strings.Contains(s, ",") {
		return nil, false
	}

	var tags []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "#") {
			part = "#" + part
		}
		tags = append(tags, part)
	}
	return tags, true
}

func parseSingleton(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	return []string{s}, true
}

// isNullLike reports placeholder values that normalize to the empty list.
func isNullLike(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none":
		return true
	}
	return false
}
