// Package clean prepares free text for downstream sentiment scoring:
// markup, URLs, mentions and retweet noise are removed while the words
// themselves are kept.
package clean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	rtPattern      = regexp.MustCompile(`^RT\s+`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
)

// Text removes URLs, mentions and the leading retweet marker, drops the
// hashtag symbol while keeping the word, collapses whitespace and
// lowercases the result.
func Text(s string) string {
	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = rtPattern.ReplaceAllString(s, "")
	s = hashtagPattern.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// StripHTML extracts the text content of an HTML fragment. On parse
// failure the input is returned unchanged.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// Features are simple per-row attributes derived during cleaning.
type Features struct {
	WordCount int
	CharCount int
	IsRetweet bool
}

// Derive computes features from the raw and cleaned forms of a text.
func Derive(raw, cleaned string) Features {
	return Features{
		WordCount: len(strings.Fields(cleaned)),
		CharCount: len(cleaned),
		IsRetweet: strings.HasPrefix(raw, "RT "),
	}
}
