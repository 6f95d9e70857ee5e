// Package tabular reads and writes delimited row collections with the
// loose, heuristic schema used by social-media CSV exports.
package tabular

import (
	"strings"
	"time"
)

// Row is one record of named cells plus its derived hashtag list.
type Row struct {
	Fields   map[string]string
	Hashtags []string
}

// Dataset is an ordered row collection. Insertion order reflects input
// file order, then concatenation order when merging.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FirstColumn returns the first candidate present in the dataset.
func (d *Dataset) FirstColumn(candidates []string) (string, bool) {
	for _, c := range candidates {
		if d.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// AddColumn appends a column name if it is not already present.
func (d *Dataset) AddColumn(name string) {
	if !d.HasColumn(name) {
		d.Columns = append(d.Columns, name)
	}
}

// FilterByDate keeps rows whose value in col falls inside the inclusive
// calendar-date range. Rows with unparseable dates are dropped.
func (d *Dataset) FilterByDate(col string, from, to time.Time) {
	kept := d.Rows[:0]
	for _, row := range d.Rows {
		t, ok := parseDatetime(row.Fields[col])
		if !ok {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(from) || day.After(to) {
			continue
		}
		kept = append(kept, row)
	}
	d.Rows = kept
}

// FilterByKeywords keeps rows whose text column contains any keyword,
// case-insensitively.
func (d *Dataset) FilterByKeywords(col string, keywords []string) {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	kept := d.Rows[:0]
	for _, row := range d.Rows {
		text := strings.ToLower(row.Fields[col])
		for _, k := range lowered {
			if k != "" && strings.Contains(text, k) {
				kept = append(kept, row)
				break
			}
		}
	}
	d.Rows = kept
}

// datetimeLayouts are tried in order when normalizing datetime cells.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Mon Jan 02 15:04:05 -0700 2006",
}

func parseDatetime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
