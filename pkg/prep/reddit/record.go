// Package reddit ingests threaded-discussion archives (zstd NDJSON dumps of
// submissions and comments) into normalized per-source CSV files.
package reddit

import (
	"strconv"
	"time"
)

// Kind is the record kind within a threaded discussion dump.
type Kind string

const (
	KindSubmission Kind = "submission"
	KindComment    Kind = "comment"
)

const dateLayout = "2006-01-02"

// Columns is the fixed output column order, aligned with the Twitter-like
// schema used by the downstream analysis.
var Columns = []string{
	"id",
	"type",
	"subreddit",
	"author",
	"date",
	"score",
	"title",
	"content",
	"url",
	"parent_id",
	"link_id",
}

// Record is one normalized submission or comment.
type Record struct {
	ID        string
	Type      Kind
	Subreddit string
	Author    string
	Date      string // ISO calendar date
	Score     int
	Title     string
	Content   string
	URL       string
	ParentID  string
	LinkID    string
}

// row returns the record's cells in Columns order.
func (r Record) row() []string {
	return []string{
		r.ID,
		string(r.Type),
		r.Subreddit,
		r.Author,
		r.Date,
		strconv.Itoa(r.Score),
		r.Title,
		r.Content,
		r.URL,
		r.ParentID,
		r.LinkID,
	}
}

// Window is an inclusive calendar-date range.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar date of t falls inside the window,
// bounds included.
func (w Window) Contains(t time.Time) bool {
	d := t.Truncate(24 * time.Hour)
	return !d.Before(w.From) && !d.After(w.To)
}
