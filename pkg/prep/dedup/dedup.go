// Package dedup merges labeled row collections into one canonical set,
// removing duplicates in two ordered passes.
package dedup

import (
	"strings"

	"github.com/cognicore/dataprep/pkg/prep/report"
	"github.com/cognicore/dataprep/pkg/prep/tabular"
)

// DefaultIDColumns are the primary-key column candidates, in priority order.
var DefaultIDColumns = []string{"tweet_id", "id", "tweetId", "status_id", "tweetid"}

// Options configures the merge.
type Options struct {
	IDColumns   []string
	TextColumns []string
	Reporter    report.Reporter
}

// Stats counts rows removed per deduplication stage.
type Stats struct {
	ByID   int
	ByText int
}

// Total returns rows removed across both stages.
func (s Stats) Total() int {
	return s.ByID + s.ByText
}

// Merge concatenates a then b and removes duplicates, keeping the first
// occurrence in concatenation order. Stage 1 drops rows whose primary-key
// value was already seen; stage 2 drops rows whose case-folded, trimmed
// text was already seen among the survivors. Without a key column only
// stage 2 runs; without either column no deduplication occurs and a
// warning is emitted.
func Merge(a, b *tabular.Dataset, opts Options) (*tabular.Dataset, Stats) {
	rep := opts.Reporter
	if rep == nil {
		rep = report.Nop
	}

	merged := concat(a, b)
	rep.Stage("merge", "rows", len(merged.Rows))

	idCols := opts.IDColumns
	if len(idCols) == 0 {
		idCols = DefaultIDColumns
	}
	textCols := opts.TextColumns
	if len(textCols) == 0 {
		textCols = tabular.DefaultTextColumns
	}

	idCol, hasID := merged.FirstColumn(idCols)
	textCol, hasText := merged.FirstColumn(textCols)

	var stats Stats

	if hasID {
		before := len(merged.Rows)
		seen := make(map[string]bool, before)
		kept := merged.Rows[:0]
		for _, row := range merged.Rows {
			key := row.Fields[idCol]
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, row)
		}
		merged.Rows = kept
		stats.ByID = before - len(merged.Rows)
		rep.Count("duplicates removed by id", stats.ByID, "column", idCol)
	}

	if hasText {
		before := len(merged.Rows)
		seen := make(map[string]bool, before)
		kept := merged.Rows[:0]
		for _, row := range merged.Rows {
			norm := strings.ToLower(strings.TrimSpace(row.Fields[textCol]))
			if seen[norm] {
				continue
			}
			seen[norm] = true
			kept = append(kept, row)
		}
		merged.Rows = kept
		stats.ByText = before - len(merged.Rows)
		rep.Count("duplicates removed by text", stats.ByText, "column", textCol)
	}

	if !hasID && !hasText {
		rep.Warn("no id or text column found, cannot deduplicate")
	}

	rep.Count("rows after deduplication", len(merged.Rows), "removed", stats.Total())
	return merged, stats
}

// concat copies a's rows then b's into a fresh dataset. Column order is
// a's columns followed by columns only b has.
func concat(a, b *tabular.Dataset) *tabular.Dataset {
	out := &tabular.Dataset{Columns: append([]string(nil), a.Columns...)}
	for _, c := range b.Columns {
		out.AddColumn(c)
	}

	out.Rows = make([]tabular.Row, 0, len(a.Rows)+len(b.Rows))
	out.Rows = append(out.Rows, a.Rows...)
	out.Rows = append(out.Rows, b.Rows...)
	return out
}
