package reddit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDomain prefixes relative permalinks and synthesized comment URLs.
const DefaultDomain = "https://www.reddit.com"

// DropReason explains why a raw event produced no record.
type DropReason int

const (
	DropNone DropReason = iota
	DropBadTimestamp
	DropOutsideWindow
)

// Normalizer maps raw heterogeneous JSON objects to fixed-schema records,
// applying the inclusive date window.
type Normalizer struct {
	Window Window
	Domain string // DefaultDomain when empty
}

// Normalize converts one decoded JSON object into a Record. The second
// return value is DropNone when the record should be kept.
//
// Submissions take content from the selftext field whether or not the post
// is a self post; the upstream source applied the same branch to both and
// that behavior is preserved as-is.
func (n *Normalizer) Normalize(obj map[string]any, kind Kind) (Record, DropReason) {
	created, ok := epochDate(obj["created_utc"])
	if !ok {
		return Record{}, DropBadTimestamp
	}
	if !n.Window.Contains(created) {
		return Record{}, DropOutsideWindow
	}

	domain := n.Domain
	if domain == "" {
		domain = DefaultDomain
	}

	subreddit := getString(obj, "subreddit")
	isSubmission := kind == KindSubmission

	url := getString(obj, "permalink")
	if url == "" {
		_, hasPermalink := obj["permalink"]
		_, hasLinkID := obj["link_id"]
		_, hasID := obj["id"]
		switch {
		case isSubmission && hasPermalink:
			url = domain + getString(obj, "permalink")
		case !isSubmission && hasLinkID && hasID:
			link := strings.ReplaceAll(getString(obj, "link_id"), "t3_", "")
			url = fmt.Sprintf("%s/r/%s/comments/%s/_/%s", domain, subreddit, link, getString(obj, "id"))
		}
	} else if !strings.HasPrefix(url, "http") {
		url = domain + url
	}

	rec := Record{
		ID:        getString(obj, "id"),
		Type:      kind,
		Subreddit: subreddit,
		Author:    getString(obj, "author"),
		Date:      created.Format(dateLayout),
		Score:     getInt(obj, "score"),
		URL:       url,
	}

	if isSubmission {
		rec.Title = getString(obj, "title")
		rec.Content = getString(obj, "selftext")
	} else {
		rec.Content = getString(obj, "body")
		rec.ParentID = getString(obj, "parent_id")
		rec.LinkID = getString(obj, "link_id")
	}

	return rec, DropNone
}

// epochDate reads a Unix epoch value (JSON number or numeric string) as a
// UTC calendar date. Fractional values fail, matching the upstream
// integer-only parse.
func epochDate(v any) (time.Time, bool) {
	var secs int64
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return time.Time{}, false
		}
		secs = int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = n
	case int64:
		secs = t
	case int:
		secs = int64(t)
	default:
		return time.Time{}, false
	}

	u := time.Unix(secs, 0).UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
}

// getString reads a string field, tolerating absent keys and non-string
// values.
func getString(obj map[string]any, key string) string {
	switch t := obj[key].(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// getInt reads an integer field, defaulting to zero.
func getInt(obj map[string]any, key string) int {
	switch t := obj[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
